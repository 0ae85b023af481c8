package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xdao.co/p2pkey/envelope"
	"xdao.co/p2pkey/keyfile"
	"xdao.co/p2pkey/keys"
)

func (a *app) idCmd() *cobra.Command {
	var (
		asCID  bool
		expect string
	)
	cmd := &cobra.Command{
		Use:   "id <input-path>",
		Short: "Print the peer ID of an RSA key file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.id(args[0], asCID, expect)
		},
	}
	cmd.Flags().BoolVar(&asCID, "cid", false, "Print the peer ID as a CIDv1 (libp2p-key)")
	cmd.Flags().StringVar(&expect, "expect", "", "Fail unless the key's peer ID equals this base58 peer ID")
	return cmd
}

func (a *app) id(path string, asCID bool, expect string) error {
	var want keys.PeerID
	if expect != "" {
		var err error
		if want, err = keys.ParsePeerID(expect); err != nil {
			return fmt.Errorf("invalid --expect: %w", err)
		}
	}
	data, err := keyfile.Read(path)
	if err != nil {
		if errors.Is(err, keyfile.ErrNotFound) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return err
	}
	env, err := envelope.Parse(data)
	if err != nil {
		return fmt.Errorf("parse key file: %w", err)
	}
	pid, enc, err := keys.PeerIDFromEnvelope(env)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	a.log.WithField("encoding", enc).Debug("decoded private key")

	if want != nil && !bytes.Equal(want, pid) {
		return fmt.Errorf("peer id mismatch: key is %s, expected %s", pid, want)
	}

	if asCID {
		c, err := pid.CID()
		if err != nil {
			return err
		}
		a.printf("%s\n", c)
		return nil
	}
	a.printf("%s\n", pid)
	return nil
}
