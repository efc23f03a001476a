package repositories

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Describe_Account_Record(t *testing.T) {
	req := require.New(t)

	// Given a stored account
	val := []byte(`{"id":"a1","email":"alice@example.com","display_name":"Alice","interests":["go"],"created_at":0}`)

	// When describing it
	row := Describe(accountPrefix+"a1", val)

	// Then the account fields are readable
	req.Equal("ACCOUNT", row.Type)
	req.Equal("1970-01-01 00:00:00", row.At)
	req.Contains(row.Detail, "Alice <alice@example.com>")
}

func Test_Describe_Sequence_And_Unknown_Records(t *testing.T) {
	req := require.New(t)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, 42)

	// When describing a sequence and an unknown key
	sequence := Describe(sequencePrefix+"p1", buf)
	unknown := Describe("other:key", []byte("abc"))

	// Then the sequence is decoded and the unknown key is left raw
	req.Equal("SEQUENCE", sequence.Type)
	req.Equal("42", sequence.Detail)
	req.Equal("RAW", unknown.Type)
	req.Equal("3 bytes", unknown.Detail)
}

func Test_Describe_Corrupted_Post(t *testing.T) {
	req := require.New(t)

	// When describing a post that is not valid JSON
	row := Describe(postPrefix+"p1", []byte("{"))

	// Then the row carries the decoding error
	req.Equal("RAW", row.Type)
	req.Contains(row.Detail, "Error: unmarshal failed")
}
