package main

import (
	"encoding/json"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SettingsDiff renders a line diff between two settings records in their
// on-disk JSON form. Unchanged lines are prefixed with two spaces, removed
// lines with "- " and added lines with "+ ". Identical settings give "".
func SettingsDiff(before, after Settings) string {
	if before == after {
		return ""
	}
	return lineDiff(settingsJSON(before), settingsJSON(after))
}

// settingsJSON encodes settings the way the profiles file does
func settingsJSON(s Settings) string {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return ""
	}
	return string(data) + "\n"
}

// lineDiff diffs two texts line by line
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}
