package pec

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
)

// esusCompressionLevel matches the DEFLATE level the PEC importer was tuned
// against.
const esusCompressionLevel = 6

// wrapEsus builds the zip archive the receiver expects: a single entry named
// <uuid>.esus holding the serialized transport envelope.
func wrapEsus(uuid string, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, esusCompressionLevel)
	})

	entry, err := zw.Create(uuid + ".esus")
	if err != nil {
		return nil, err
	}
	if _, err := entry.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
