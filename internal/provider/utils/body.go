package utils

import (
	"fmt"
	"io"
	"strings"
)

// ReadBody reads the body and closes it.
func ReadBody(body io.ReadCloser) (data []byte, err error) {
	data, err = io.ReadAll(body)
	if err != nil {
		_ = body.Close()
		return nil, fmt.Errorf("reading body: %w", err)
	}
	err = body.Close()
	if err != nil {
		return nil, fmt.Errorf("closing body: %w", err)
	}
	return data, nil
}

func ToSingleLine(s string) (line string) {
	line = strings.ReplaceAll(s, "\n", "")
	line = strings.ReplaceAll(line, "\r", "")
	line = strings.ReplaceAll(line, "  ", " ")
	line = strings.ReplaceAll(line, "  ", " ")
	return line
}
