// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFComposer merges PDF documents with pdfcpu. Pages are appended in
// input order, each document's pages in its own internal order.
type PDFComposer struct {
	conf *model.Configuration
}

func NewPDFComposer() *PDFComposer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFComposer{conf: conf}
}

func (p *PDFComposer) Merge(inputs [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(inputs))
	for i, in := range inputs {
		rs := bytes.NewReader(in)
		// Validate up front so a parse failure names the offending input.
		if err := api.Validate(rs, p.conf); err != nil {
			return nil, &MergeError{Index: i, Err: err}
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, &MergeError{Index: i, Err: err}
		}
		readers[i] = rs
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, p.conf); err != nil {
		return nil, &MergeError{Index: -1, Err: err}
	}
	return out.Bytes(), nil
}
