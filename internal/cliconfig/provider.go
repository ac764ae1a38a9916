package cliconfig

import "errors"

var errReadBytes = errors.New("cliconfig: map provider does not support ReadBytes")

// mapProvider feeds an in-memory map (defaults, flag overrides) to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytes
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
