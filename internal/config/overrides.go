package config

// Overrides carries CLI flag values. Nil fields leave the file value untouched.
type Overrides struct {
	Duration        *Duration
	Backend         *string
	Color           *string
	FontDescription *string
	Filled          *string
	HalfFilled      *string
	Empty           *string
}

// Apply returns cfg with every set override copied in. The result still needs Validate.
func (o Overrides) Apply(cfg Config) Config {
	if o.Duration != nil {
		cfg.Session.Duration = *o.Duration
	}
	if o.Backend != nil {
		cfg.Display.Backend = *o.Backend
	}
	if o.Color != nil {
		cfg.Display.Color = *o.Color
	}
	if o.FontDescription != nil {
		cfg.Display.FontDescription = *o.FontDescription
	}
	if o.Filled != nil {
		cfg.Progress.Filled = *o.Filled
	}
	if o.HalfFilled != nil {
		cfg.Progress.HalfFilled = *o.HalfFilled
	}
	if o.Empty != nil {
		cfg.Progress.Empty = *o.Empty
	}
	return cfg
}
