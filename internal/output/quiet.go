package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/halentin/FMI-Viewer/internal/models"
)

// QuietFormatter outputs a one-line summary
type QuietFormatter struct{}

func (f *QuietFormatter) Format(result *models.ParseResult, w io.Writer) error {
	platforms := "none"
	if len(result.Platforms) > 0 {
		platforms = strings.Join(result.Platforms, ", ")
	}

	_, err := fmt.Fprintf(w, "%s (FMI %s): %d variables, platforms: %s\n",
		modelLabel(result),
		orDash(result.FMIVersion),
		len(result.Variables),
		platforms,
	)
	return err
}
