package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{
			name:     "archive",
			err:      ArchiveError(io.ErrUnexpectedEOF, "m.fmu"),
			sentinel: ErrArchive,
			others:   []error{ErrMissingDescriptor, ErrDescriptorSyntax},
		},
		{
			name:     "missing descriptor",
			err:      MissingDescriptorError("m.fmu", "modelDescription.xml"),
			sentinel: ErrMissingDescriptor,
			others:   []error{ErrArchive, ErrDescriptorSyntax},
		},
		{
			name:     "descriptor syntax",
			err:      DescriptorSyntaxError(stderrors.New("unexpected EOF"), 3, 14),
			sentinel: ErrDescriptorSyntax,
			others:   []error{ErrArchive, ErrMissingDescriptor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("inspect: %w", tt.err), tt.sentinel)
			for _, other := range tt.others {
				assert.NotErrorIs(t, tt.err, other)
			}
			assert.Equal(t, tt.sentinel.(*Error).Type, GetType(tt.err))
		})
	}
}

func TestArchiveError_KeepsCause(t *testing.T) {
	err := ArchiveError(io.ErrUnexpectedEOF, "m.fmu")

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "cannot read archive m.fmu: unexpected EOF", err.Error())
	assert.Equal(t, "m.fmu", err.Context["path"])
}

func TestDescriptorSyntaxError_Position(t *testing.T) {
	err := DescriptorSyntaxError(stderrors.New("element <a> closed by </b>"), 7, 2)

	assert.Contains(t, err.Error(), "line 7, column 2")
	assert.Equal(t, 7, err.Context["line"])
	assert.Equal(t, 2, err.Context["column"])
	assert.Contains(t, err.DetailedString(), "[CRITICAL] [DESCRIPTOR_SYNTAX]")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeDatabase, SeverityHigh, "ignored"))
}

func TestGetType(t *testing.T) {
	err := ConfigErrorf("bad %s", "value")
	require.NotNil(t, err)

	assert.Equal(t, ErrorTypeConfig, GetType(err))
	assert.Equal(t, ErrorTypeValidation, GetType(fmt.Errorf("tool: %w", ValidationError("path is required"))))
	assert.Equal(t, ErrorTypeInternal, GetType(stderrors.New("plain")))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "ARCHIVE", ErrorTypeArchive.String())
	assert.Equal(t, "MISSING_DESCRIPTOR", fmt.Sprint(ErrorTypeMissingDescriptor))
	assert.Equal(t, "UNKNOWN", ErrorType(99).String())
}
