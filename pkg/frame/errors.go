package frame

import "fmt"

// ConfigError reports an unusable input specification.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("frame: invalid %s: %s", e.Field, e.Message)
}

// OpenError reports a video file, stream or device that could not be opened.
type OpenError struct {
	Source string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("frame: video %s cannot be opened", e.Source)
}

// ReadError reports an image in a list that could not be decoded.
type ReadError struct {
	Path string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("frame: image %s cannot be read", e.Path)
}
