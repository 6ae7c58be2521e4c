package contact

import (
	"mime/multipart"
	"sort"
)

// FileAliases are the form keys consulted for uploads, highest priority first.
var FileAliases = []string{"files", "files[]", "file", "upload", "attachment", "attachments"}

// PickFiles selects the uploads of the first alias present in files. When no
// alias matches, the lexicographically smallest key is used so that unknown
// file inputs still reach the clinic.
func PickFiles(files map[string][]*multipart.FileHeader) []*multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}

	for _, alias := range FileAliases {
		if headers, ok := files[alias]; ok {
			return headers
		}
	}

	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return files[keys[0]]
}
