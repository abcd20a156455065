// SPDX-License-Identifier: MPL-2.0

package adminssh

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/modserver/modserver/internal/builtin"
	"github.com/modserver/modserver/internal/console"
	"github.com/modserver/modserver/internal/core/serverbase"
	"github.com/modserver/modserver/internal/registry"
	"github.com/modserver/modserver/internal/router"
	"github.com/modserver/modserver/internal/testutil"
)

const testToken = "s3cret"

type fixture struct {
	srv *Server
	reg *registry.Registry
}

func start(t *testing.T, cfg Config) fixture {
	t.Helper()

	cat := builtin.Catalog(builtin.BuildInfo{Version: "test", StartedAt: time.Now()})
	reg := registry.New(cat, router.New())
	c := console.New(console.Config{Registry: reg, Catalog: cat})

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Token == "" {
		cfg.Token = testToken
	}
	srv, err := New(cfg, c, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { testutil.MustStop(t, srv) })
	return fixture{srv: srv, reg: reg}
}

func dial(t *testing.T, addr, password string) (*gossh.Client, error) {
	t.Helper()
	return gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            "operator",
		Auth:            []gossh.AuthMethod{gossh.Password(password)},
		HostKeyCallback: gossh.InsecureIgnoreHostKey(), //nolint:gosec // test server
		Timeout:         5 * time.Second,
	})
}

func runLine(t *testing.T, client *gossh.Client, line string) string {
	t.Helper()
	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer func() { _ = sess.Close() }()
	out, err := sess.CombinedOutput(line)
	if err != nil {
		t.Fatalf("run %q: %v (output %q)", line, err, out)
	}
	return string(out)
}

func TestNew_RequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}, console.New(console.Config{}), nil); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("New without token err = %v, want ErrTokenRequired", err)
	}
}

func TestServer_ExecCommands(t *testing.T) {
	t.Parallel()

	f := start(t, Config{})
	client, err := dial(t, f.srv.Address(), testToken)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer testutil.MustClose(t, client)

	out := runLine(t, client, "enable helloworld /hello")
	if !strings.Contains(out, "Successfully loaded and enabled helloworld at path /hello!") {
		t.Errorf("enable output = %q", out)
	}
	if _, ok := f.reg.Lookup("helloworld"); !ok {
		t.Error("helloworld not active after remote enable")
	}

	out = runLine(t, client, "list")
	if !strings.Contains(out, "Module helloworld currently mounted at /hello") {
		t.Errorf("list output = %q", out)
	}
}

func TestServer_QuitEndsSessionOnly(t *testing.T) {
	t.Parallel()

	f := start(t, Config{})
	client, err := dial(t, f.srv.Address(), testToken)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer testutil.MustClose(t, client)

	if out := runLine(t, client, "quit"); !strings.Contains(out, "Quitting server!") {
		t.Errorf("quit output = %q", out)
	}
	if !f.srv.IsRunning() {
		t.Fatalf("state after remote quit = %s, want running", f.srv.State())
	}
	runLine(t, client, "status")
}

func TestServer_RejectsWrongToken(t *testing.T) {
	t.Parallel()

	f := start(t, Config{})
	client, err := dial(t, f.srv.Address(), "wrong")
	if err == nil {
		_ = client.Close()
		t.Fatal("dial with wrong token succeeded")
	}
}

func TestServer_HostKeyPath(t *testing.T) {
	t.Parallel()

	keyPath := filepath.Join(t.TempDir(), "admin_ed25519")
	f := start(t, Config{HostKeyPath: keyPath})

	var first gossh.PublicKey
	client, err := gossh.Dial("tcp", f.srv.Address(), &gossh.ClientConfig{
		User: "operator",
		Auth: []gossh.AuthMethod{gossh.Password(testToken)},
		HostKeyCallback: func(_ string, _ net.Addr, key gossh.PublicKey) error {
			first = key
			return nil
		},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	testutil.MustClose(t, client)
	if first == nil {
		t.Fatal("no host key presented")
	}
}

func TestServer_StopRightAfterStart(t *testing.T) {
	t.Parallel()

	for i := range 20 {
		srv, err := New(Config{Host: "127.0.0.1", Token: testToken}, console.New(console.Config{}), nil)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := srv.Start(context.Background()); err != nil {
			t.Fatalf("Start: %v", err)
		}

		done := make(chan error, 1)
		go func() {
			if err := srv.Stop(); err != nil {
				done <- err
				return
			}
			done <- srv.Stop()
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("iteration %d: Stop: %v", i, err)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("iteration %d: Stop did not return", i)
		}
		if srv.State() != serverbase.StateStopped {
			t.Fatalf("iteration %d: state = %s, want stopped", i, srv.State())
		}
	}
}

func TestServer_InteractivePty(t *testing.T) {
	t.Parallel()

	f := start(t, Config{})
	client, err := dial(t, f.srv.Address(), testToken)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer testutil.MustClose(t, client)

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer func() { _ = sess.Close() }()

	if err := sess.RequestPty("xterm", 40, 120, gossh.TerminalModes{}); err != nil {
		t.Fatalf("RequestPty: %v", err)
	}
	stdin, err := sess.StdinPipe()
	if err != nil {
		t.Fatalf("StdinPipe: %v", err)
	}
	var out syncBuffer
	sess.Stdout = &out
	if err := sess.Shell(); err != nil {
		t.Fatalf("Shell: %v", err)
	}

	// Terminals send '\r' for Enter.
	if _, err := io.WriteString(stdin, "enable helloworld /hi\rlist\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, &out, "Module helloworld currently mounted at /hi")
	if !strings.Contains(out.String(), "enable helloworld /hi") {
		t.Errorf("typed input was not echoed: %q", out.String())
	}

	if _, err := io.WriteString(stdin, "quit\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, &out, "Quitting server!")

	done := make(chan error, 1)
	go func() { done <- sess.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after quit")
	}
	if !f.srv.IsRunning() {
		t.Errorf("state after session quit = %s, want running", f.srv.State())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, b.String())
}
