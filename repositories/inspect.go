package repositories

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Prefixes lists every record family in the store, in the order an operator
// usually wants to read them.
var Prefixes = []string{
	accountPrefix, emailPrefix, postPrefix, feedPrefix, authorPrefix,
	followOutPrefix, followInPrefix, likePrefix, commentPrefix, sequencePrefix,
}

// Row is a human readable rendition of one stored record.
type Row struct {
	Key    string
	Type   string
	At     string
	Detail string
}

// Describe decodes a raw key/value pair for inspection tools.
// Unknown prefixes are reported as RAW with the value length.
func Describe(key string, val []byte) Row {
	row := Row{Key: key, Type: "RAW", Detail: fmt.Sprintf("%d bytes", len(val))}
	switch {
	case strings.HasPrefix(key, accountPrefix):
		var d diskAccount
		if err := jsonUnmarshal(val, &d); err != nil {
			return failed(row, err)
		}
		row.Type = "ACCOUNT"
		row.At = formatNano(d.CreatedAt)
		row.Detail = fmt.Sprintf("%s <%s> interests=%v", d.DisplayName, d.Email, d.Interests)
	case strings.HasPrefix(key, emailPrefix):
		row.Type = "EMAIL"
		row.Detail = "account=" + string(val)
	case strings.HasPrefix(key, postPrefix):
		var d diskPost
		if err := jsonUnmarshal(val, &d); err != nil {
			return failed(row, err)
		}
		row.Type = "POST"
		row.At = formatNano(d.At)
		row.Detail = fmt.Sprintf("author=%s images=%d %s", shortID(d.AuthorID), len(d.ImageRefs), d.Text)
	case strings.HasPrefix(key, feedPrefix), strings.HasPrefix(key, authorPrefix):
		row.Type = "INDEX"
		row.Detail = "post=" + string(val)
	case strings.HasPrefix(key, followOutPrefix):
		row.Type = "FOLLOW"
		row.Detail = string(val)
	case strings.HasPrefix(key, followInPrefix):
		row.Type = "FOLLOWER"
	case strings.HasPrefix(key, likePrefix):
		row.Type = "LIKE"
		row.Detail = string(val)
	case strings.HasPrefix(key, commentPrefix):
		row.Type = "COMMENT"
		row.Detail = string(val)
	case strings.HasPrefix(key, sequencePrefix):
		row.Type = "SEQUENCE"
		if len(val) == 8 {
			row.Detail = fmt.Sprintf("%d", binary.BigEndian.Uint64(val))
		}
	}
	return row
}

func failed(row Row, err error) Row {
	row.Detail = "Error: " + err.Error()
	return row
}

func formatNano(nano int64) string {
	return time.Unix(0, nano).UTC().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
