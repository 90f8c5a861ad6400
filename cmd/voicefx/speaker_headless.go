//go:build headless

package main

import (
	"errors"
	"io"
)

func openSpeaker(int, int, int) (io.WriteCloser, error) {
	return nil, errors.New("audio output is not available in headless builds")
}
