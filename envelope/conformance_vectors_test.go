package envelope

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type vector struct {
	name    string
	raw     []byte
	kind    string
	data    string
	strict  string
	lenient string
}

func loadVectors(t *testing.T) []vector {
	t.Helper()
	path := filepath.Join("..", "testdata", "conformance", "envelope", "vectors.txt")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open vectors: %v", err)
	}
	defer f.Close()

	var out []vector
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) != 6 {
			t.Fatalf("malformed vector line: %q", line)
		}
		raw, err := hex.DecodeString(cols[1])
		if err != nil {
			t.Fatalf("vector %s: %v", cols[0], err)
		}
		out = append(out, vector{cols[0], raw, cols[2], cols[3], cols[4], cols[5]})
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan vectors: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("no vectors loaded")
	}
	return out
}

func checkVector(t *testing.T, v vector, mode, want string, env *Envelope, err error) {
	t.Helper()
	if want != "ok" {
		if err == nil {
			t.Fatalf("%s/%s: expected %s, parse succeeded", v.name, mode, want)
		}
		if got := RuleID(err); got != want {
			t.Fatalf("%s/%s: expected %s, got %s (%v)", v.name, mode, want, got, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s/%s: %v", v.name, mode, err)
	}
	kind, perr := strconv.ParseUint(v.kind, 10, 64)
	if perr != nil {
		t.Fatalf("%s: bad kind column %q", v.name, v.kind)
	}
	var data []byte
	if v.data != "-" {
		data, _ = hex.DecodeString(v.data)
	}
	if env.Kind != KeyKind(kind) || !bytes.Equal(env.Data, data) {
		t.Fatalf("%s/%s: got kind %d data %x", v.name, mode, env.Kind, env.Data)
	}
}

func TestConformanceVectors_Envelope(t *testing.T) {
	for _, v := range loadVectors(t) {
		env, err := Parse(v.raw)
		checkVector(t, v, "strict", v.strict, env, err)

		env, err = ParseLenient(v.raw)
		checkVector(t, v, "lenient", v.lenient, env, err)
	}
}

func TestConformanceVectors_StrictAcceptedAreCanonical(t *testing.T) {
	for _, v := range loadVectors(t) {
		if v.strict != "ok" {
			continue
		}
		env, err := Parse(v.raw)
		if err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}
		if !bytes.Equal(env.Marshal(), v.raw) {
			t.Fatalf("%s: re-marshalled bytes differ", v.name)
		}
	}
}
