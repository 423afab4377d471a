package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Println("one")
	p.Printf("two %d", 2)

	if buf.String() != "one\ntwo 2\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_ConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.Println("Light is turned ON.")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("got %d lines, want 400", len(lines))
	}
	for i, l := range lines {
		if l != "Light is turned ON." {
			t.Fatalf("line %d torn: %q", i, l)
		}
	}
}

func TestStdout_IsShared(t *testing.T) {
	if Stdout() != Stdout() {
		t.Error("Stdout should return the same printer")
	}
}
