package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPDFOptions(t *testing.T) {
	options := DefaultPDFOptions()
	assert.Equal(t, "letter", options.PageSize)
	assert.Equal(t, 72, options.MarginPoints)
}

func TestPaperDimensions(t *testing.T) {
	tests := []struct {
		name       string
		pageSize   string
		wantWidth  float64
		wantHeight float64
	}{
		{name: "Letter", pageSize: "letter", wantWidth: 8.5, wantHeight: 11.0},
		{name: "Legal", pageSize: "legal", wantWidth: 8.5, wantHeight: 14.0},
		{name: "A4", pageSize: "A4", wantWidth: 8.27, wantHeight: 11.69},
		{name: "Unknown falls back to letter", pageSize: "tabloid", wantWidth: 8.5, wantHeight: 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height := paperDimensions(tt.pageSize)
			assert.Equal(t, tt.wantWidth, width)
			assert.Equal(t, tt.wantHeight, height)
		})
	}
}
