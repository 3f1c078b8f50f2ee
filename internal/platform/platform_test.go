package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []string
	}{
		{
			name:    "no binaries",
			entries: []string{"modelDescription.xml", "sources/model.c"},
			want:    []string{},
		},
		{
			name:    "same platform twice",
			entries: []string{"binaries/linux64/a.so", "binaries/linux64/b.so"},
			want:    []string{"linux64"},
		},
		{
			name: "sorted output",
			entries: []string{
				"binaries/x86_64-windows/m.dll",
				"binaries/darwin64/m.dylib",
				"binaries/aarch64-linux/m.so",
				"binaries/linux64/m.so",
			},
			want: []string{"aarch64-linux", "darwin64", "linux64", "x86_64-windows"},
		},
		{
			name:    "directory entries",
			entries: []string{"binaries/", "binaries/win64/", "binaries/win64/m.dll"},
			want:    []string{"win64"},
		},
		{
			name:    "file directly under binaries",
			entries: []string{"binaries/README.txt"},
			want:    []string{},
		},
		{
			name:    "prefix must be at root",
			entries: []string{"resources/binaries/linux64/m.so", "binaries2/linux64/m.so"},
			want:    []string{},
		},
		{
			name:    "nil input",
			entries: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.entries)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
