package internal

import (
	"strings"
	"unicode"
)

// Version is the wordcard release version
const Version = "0.3.0"

// forbiddenFilenameChars are stripped from generated download names
const forbiddenFilenameChars = `\/:*?"<>|`

// SanitizeFilename removes characters that are not allowed in file names
// on common filesystems. Letters of any script (including CJK) are kept.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(forbiddenFilenameChars, r) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// CardFilename builds the download name for a student's card deck
// Format: 单词卡_class_name_list.html
func CardFilename(class, name, listNum string) string {
	return "单词卡_" + SanitizeFilename(class) + "_" + SanitizeFilename(name) + "_" + SanitizeFilename(listNum) + ".html"
}
