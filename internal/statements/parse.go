package statements

import "fmt"

// Parse runs the dialect parser for the given format over raw statement
// content. Malformed individual rows are silently dropped, never fatal to the
// batch; empty or header-only input yields an empty slice, not an error.
func Parse(format Format, content string) ([]Row, error) {
	switch format {
	case FormatMonzo:
		return parseMonzo(content), nil
	case FormatStarling:
		return parseStarling(content), nil
	case FormatHSBC:
		return parseHSBC(content), nil
	case FormatAmex:
		return parseAmex(content), nil
	}
	return nil, fmt.Errorf("no parser for format %q", format)
}
