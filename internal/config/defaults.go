package config

import "time"

// DefaultName is the program name used for the rendezvous files and logs.
const DefaultName = "mediaosd"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Session: SessionConfig{
			Dir:          "",
			Name:         DefaultName,
			Duration:     Duration(2 * time.Second),
			RetryAsOwner: true,
			ReadTimeout:  Duration(500 * time.Millisecond),
			SendTimeout:  Duration(time.Second),
		},
		Display: DisplayConfig{
			Backend:         "hypr",
			Color:           "#000000FF",
			FontDescription: "Monospace 13",
			PollInterval:    Duration(10 * time.Millisecond),
			AppName:         DefaultName,
		},
		Progress: ProgressConfig{
			Filled:     "█",
			HalfFilled: "▌",
			Empty:      " ",
		},
		Audio: AudioConfig{
			Sink:   "default",
			Source: "default",
		},
	}
}
