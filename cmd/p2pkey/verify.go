package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"xdao.co/p2pkey/cidutil"
	"xdao.co/p2pkey/envelope"
	"xdao.co/p2pkey/keyfile"
	"xdao.co/p2pkey/keys"
)

func (a *app) verifyCmd() *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "verify <input-path>",
		Short: "Check the envelope framing of a key file",
		Long: `Check that <input-path> holds exactly one key envelope: field 1 (key type,
varint) followed by field 2 (key data, length-delimited) whose declared length
consumes the rest of the file.

The key data is then sniffed for a DER SEQUENCE; that check is informational
and never fails verification. --lenient accepts any protobuf encoding of the
two fields (other order, extra fields).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.verify(args[0], lenient)
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Accept field reordering and unknown fields")
	return cmd
}

func (a *app) verify(path string, lenient bool) error {
	data, err := keyfile.Read(path)
	if err != nil {
		if errors.Is(err, keyfile.ErrNotFound) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return err
	}
	a.printf("Verifying file: %s\n", path)
	a.printf("File size: %d bytes\n", len(data))

	mode := envelope.Strict
	if lenient {
		mode = envelope.Lenient
	}
	if mode == envelope.Strict {
		err = a.printHeader(data)
	}
	var env *envelope.Envelope
	if err == nil {
		env, err = envelope.ParseMode(data, mode)
	}
	if err != nil {
		a.log.WithFields(logrus.Fields{"rule": envelope.RuleID(err), "mode": mode}).Debug("envelope rejected")
		return fmt.Errorf("verification failed: %w", err)
	}
	a.printf("Key type: %d (%s)\n", uint64(env.Kind), env.Kind)
	a.printf("Key data length: %d bytes\n", len(env.Data))
	if !env.Kind.Known() {
		a.warn("Key type %d is not one of RSA, Ed25519, Secp256k1, ECDSA", uint64(env.Kind))
	}

	switch keys.Sniff(env.Data) {
	case keys.Likely:
		a.ok("Key data looks like DER (leading byte 0x30)")
	default:
		if len(env.Data) == 0 {
			a.warn("Key data is empty")
		} else {
			a.warn("Key data may not be DER, leading byte: 0x%02x", env.Data[0])
		}
	}
	if env.Kind == envelope.RSA {
		if enc, derr := keys.DetectEncoding(env.Data); derr == nil {
			a.printf("Encoding: %s\n", enc.Describe())
		} else {
			a.log.WithError(derr).Debug("could not detect key encoding")
		}
	}
	a.printf("File CID: %s\n", cidutil.CIDv1RawSHA256(data))
	a.ok("Key envelope is valid")
	return nil
}

// printHeader runs the strict framing checks and prints both field tags.
func (a *app) printHeader(data []byte) error {
	h, err := envelope.ParseHeader(data)
	if err != nil {
		return err
	}
	a.printf("Field 1 - number: %d, wire type: %d\n", envelope.FieldNumber(h.KindTag), envelope.WireType(h.KindTag))
	a.printf("Field 2 - number: %d, wire type: %d\n", envelope.FieldNumber(h.DataTag), envelope.WireType(h.DataTag))
	return nil
}
