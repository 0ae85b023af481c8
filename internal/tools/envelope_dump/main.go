// envelope_dump prints every protobuf field of a key file, including fields
// the strict parser would reject, followed by the strict verdict.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protowire"

	"xdao.co/p2pkey/envelope"
	"xdao.co/p2pkey/keyfile"
)

const previewLen = 16

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: envelope_dump <key-file>")
		os.Exit(2)
	}
	b, err := keyfile.Read(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}

	fields, ferr := envelope.Fields(b)
	for _, f := range fields {
		switch f.WireType {
		case protowire.VarintType:
			fmt.Printf("@%d field %d varint %d\n", f.Offset, f.Number, f.Varint)
		case protowire.BytesType:
			preview := f.Bytes
			if len(preview) > previewLen {
				preview = preview[:previewLen]
			}
			fmt.Printf("@%d field %d bytes len=%d %s\n", f.Offset, f.Number, len(f.Bytes), hex.EncodeToString(preview))
		default:
			fmt.Printf("@%d field %d wire type %d (%d bytes)\n", f.Offset, f.Number, f.WireType, f.Len)
		}
	}
	if ferr != nil {
		fmt.Printf("protobuf: %v\n", ferr)
	}

	if _, err := envelope.Parse(b); err != nil {
		fmt.Printf("strict: %s %v\n", envelope.RuleID(err), err)
		os.Exit(1)
	}
	fmt.Println("strict: ok")
}
