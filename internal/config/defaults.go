package config

const (
	defaultConvertBinary  = "convert"
	defaultTarBinary      = "tar"
	defaultJheadBinary    = "jhead"
	defaultExiftoolBinary = "exiftool"
	defaultEXIFReader     = EXIFReaderJhead
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Convert:  defaultConvertBinary,
			Tar:      defaultTarBinary,
			Jhead:    defaultJheadBinary,
			Exiftool: defaultExiftoolBinary,
		},
		Gallery: Gallery{
			EXIFReader: defaultEXIFReader,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
