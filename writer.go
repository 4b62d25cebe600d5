package citydump

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// documentWriter streams the output document:
//
//	{
//	  "metadata": {...},
//	  "updates": [
//	<record>,
//	<record>
//	  ]
//	}
//
// Records are appended one at a time; nothing but the current record is
// buffered beyond the bufio.Writer.
type documentWriter struct {
	w   *bufio.Writer
	buf bytes.Buffer
	enc *json.Encoder
	n   int // records written so far
}

func newDocumentWriter(w io.Writer) *documentWriter {
	dw := &documentWriter{w: bufio.NewWriter(w)}
	dw.enc = json.NewEncoder(&dw.buf)
	dw.enc.SetEscapeHTML(false)
	return dw
}

// writeHeader writes the mapping header and opens the updates array.
func (dw *documentWriter) writeHeader() error {
	md, err := json.MarshalIndent(Metadata(), "  ", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if _, err := dw.w.WriteString("{\n  \"metadata\": "); err != nil {
		return err
	}
	if _, err := dw.w.Write(md); err != nil {
		return err
	}
	_, err = dw.w.WriteString(",\n  \"updates\": [\n")
	return err
}

// writeRecord appends p to the updates array. Every record after the first
// is preceded by a separator.
func (dw *documentWriter) writeRecord(p *Place) error {
	dw.buf.Reset()
	if err := dw.enc.Encode(p); err != nil {
		return fmt.Errorf("encoding place %s: %w", p.ID, err)
	}
	if dw.n > 0 {
		if _, err := dw.w.WriteString(",\n"); err != nil {
			return err
		}
	}
	// Encode terminates each value with a newline.
	if _, err := dw.w.Write(bytes.TrimSuffix(dw.buf.Bytes(), []byte("\n"))); err != nil {
		return err
	}
	dw.n++
	return nil
}

// finish closes the array and the document and flushes.
func (dw *documentWriter) finish() error {
	if _, err := dw.w.WriteString("\n  ]\n}\n"); err != nil {
		return err
	}
	return dw.w.Flush()
}

// count returns the number of records written.
func (dw *documentWriter) count() int {
	return dw.n
}
