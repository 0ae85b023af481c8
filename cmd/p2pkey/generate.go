package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"xdao.co/p2pkey/envelope"
	"xdao.co/p2pkey/keyfile"
	"xdao.co/p2pkey/keys"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		bits  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "generate <output-path> [pkcs1|pkcs8]",
		Short: "Generate an RSA private key file",
		Long: `Generate an RSA private key and write it, wrapped in the protobuf key
envelope, to <output-path> with owner-only permissions.

The optional second argument selects the DER encoding of the key. Without it,
macOS hosts use PKCS#1 and every other host uses PKCS#8.

Flags may also be set through the environment (P2PKEY_BITS, P2PKEY_FORCE).`,
		Example: "  p2pkey generate ./swarm.pem\n  p2pkey generate ./swarm.pem pkcs1",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := keys.DefaultEncoding(a.goos)
			if len(args) == 2 {
				var err error
				if enc, err = keys.ParseEncoding(args[1]); err != nil {
					return err
				}
			}
			return a.generate(args[0], enc, bits, force)
		},
	}
	cmd.Flags().IntVar(&bits, "bits", keys.DefaultBits, "RSA modulus size in bits")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file without asking")
	return cmd
}

func (a *app) generate(path string, enc keys.Encoding, bits int, force bool) error {
	exists, err := keyfile.Exists(path)
	if err != nil {
		return fmt.Errorf("check %s: %w", path, err)
	}
	overwrite := force
	if exists && !force {
		ok, err := a.confirm(fmt.Sprintf("File %s already exists, overwrite? (y/N): ", path))
		if err != nil {
			return err
		}
		if !ok {
			a.printf("Cancelled.\n")
			return nil
		}
		overwrite = true
	}

	a.printf("Generating key file: %s\n", path)
	a.log.WithFields(logrus.Fields{"bits": bits, "encoding": enc, "host": a.goos}).Debug("generating rsa key")

	g, err := keys.Generate(keys.Options{Bits: bits, Encoding: enc})
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	if err := keyfile.Write(path, g.Envelope, overwrite); err != nil {
		if errors.Is(err, keyfile.ErrExists) {
			return fmt.Errorf("write key file: %w (created concurrently?)", err)
		}
		return fmt.Errorf("write key file: %w", err)
	}
	a.log.WithFields(logrus.Fields{"path": path, "bytes": len(g.Envelope)}).Debug("wrote key file")

	if err := readBack(path, envelope.Envelope{Kind: envelope.RSA, Data: g.DER}); err != nil {
		return err
	}

	mode, err := keyfile.Mode(path)
	if err != nil {
		return fmt.Errorf("stat key file: %w", err)
	}
	a.ok("Key file written: %s", path)
	a.printf("   - key type:    RSA %d bits\n", g.Key.N.BitLen())
	a.printf("   - encoding:    %s\n", enc.Describe())
	a.printf("   - file format: protobuf key envelope\n")
	a.printf("   - permissions: %04o\n", mode)
	a.printf("   - file size:   %d bytes\n", len(g.Envelope))
	a.printf("   - peer id:     %s\n", g.PeerID)
	return nil
}

// readBack re-reads the written file and checks it parses to want.
func readBack(path string, want envelope.Envelope) error {
	b, err := keyfile.Read(path)
	if err != nil {
		return fmt.Errorf("read back key file: %w", err)
	}
	got, err := envelope.Parse(b)
	if err != nil {
		return fmt.Errorf("read back key file: %w", err)
	}
	if !got.Equal(want) {
		return fmt.Errorf("read back key file: %s does not hold the generated key", path)
	}
	return nil
}

// confirm prints prompt and reads one line. Only y or yes (any case) confirm;
// end of input counts as no.
func (a *app) confirm(prompt string) (bool, error) {
	a.printf("%s", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		a.printf("\n")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
