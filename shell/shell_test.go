package shell_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrell3n/elfs"
	"github.com/mrell3n/elfs/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session drives the dispatcher against a temp-file image, capturing output
// per command.
type session struct {
	t   *testing.T
	ctx *shell.Context
	out *bytes.Buffer
}

func newSession(t *testing.T) *session {
	t.Helper()

	out := &bytes.Buffer{}
	imagePath := filepath.Join(t.TempDir(), "test.img")
	ctx := shell.NewContext(imagePath, nil, out)
	t.Cleanup(ctx.CloseFS)

	return &session{t: t, ctx: ctx, out: out}
}

// run dispatches one line and returns its output with the trailing newline
// trimmed.
func (s *session) run(line string) string {
	s.t.Helper()
	s.out.Reset()
	shell.Dispatch(s.ctx, line)
	return strings.TrimSuffix(s.out.String(), "\n")
}

func (s *session) expect(line, want string) {
	s.t.Helper()
	assert.Equal(s.t, want, s.run(line), "command %q", line)
}

func TestShell__FormatAndStatfs(t *testing.T) {
	s := newSession(t)

	s.expect("format 64MB", "OK")

	stats := s.run("statfs")
	assert.Contains(t, stats, "Block size: 4096 B")
	assert.Contains(t, stats, "File system size: 67108864 B")
	assert.Contains(t, stats, "Data blocks: all=")
	assert.Contains(t, stats, "Directories: 1")

	s.expect("format nonsense", "CANNOT CREATE FILE")
}

func TestShell__FormatProfileSlug(t *testing.T) {
	s := newSession(t)

	s.expect("format tiny", "OK")
	assert.Contains(t, s.run("statfs"), "File system size: 1048576 B")
}

func TestShell__MkdirLsRmdir(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")

	s.expect("mkdir /a", "OK")
	s.expect("mkdir /a", "EXIST")
	s.expect("mkdir /a/b/c", "PATH NOT FOUND")
	s.expect("mkdir /a/"+strings.Repeat("x", 13), "NAME TOO LONG")

	s.expect("ls /", "DIR: a")
	s.expect("ls /missing", "PATH NOT FOUND")

	s.expect("rmdir /a", "OK")
	s.expect("rmdir /a", "FILE NOT FOUND")
	s.expect("ls /", "")
}

func TestShell__IncpCatInfo(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")
	s.expect("mkdir /a", "OK")

	hostFile := filepath.Join(t.TempDir(), "host.txt")
	require.NoError(t, os.WriteFile(hostFile, []byte("hello"), 0o644))

	s.expect("incp "+hostFile+" /a/file", "OK")
	s.expect("incp missing.txt /a/other", "FILE NOT FOUND")
	s.expect("incp "+hostFile+" /nodir/file", "PATH NOT FOUND")

	s.expect("cat /a/file", "hello")
	s.expect("cat /a/nothing", "FILE NOT FOUND")

	info := s.run("info /a/file")
	assert.True(t, strings.HasPrefix(info, "file – 5 B – i-node "), "got %q", info)
	assert.True(t, strings.HasSuffix(info, "– soft links: 0"), "got %q", info)
}

func TestShell__Symlinks(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")
	s.expect("mkdir /a", "OK")

	hostFile := filepath.Join(t.TempDir(), "host.txt")
	require.NoError(t, os.WriteFile(hostFile, []byte("hello"), 0o644))
	s.expect("incp "+hostFile+" /a/file", "OK")

	s.expect("slink /a/file /link", "OK")
	s.expect("slink /a/file /link", "EXIST")
	s.expect("cat /link", "hello")
	s.expect("ls /", "DIR: a\nSYMLINK: link")

	assert.True(t, strings.HasSuffix(s.run("info /a/file"), "– soft links: 1"))

	s.expect("rmslink /link", "OK")
	s.expect("rmslink /link", "FILE NOT FOUND")
	s.expect("rmslink /a/file", "FILE NOT FOUND")
	assert.True(t, strings.HasSuffix(s.run("info /a/file"), "– soft links: 0"))
}

func TestShell__CpRmOverwrite(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")
	s.expect("mkdir /a", "OK")

	hostFile := filepath.Join(t.TempDir(), "host.txt")
	require.NoError(t, os.WriteFile(hostFile, []byte("hello"), 0o644))
	s.expect("incp "+hostFile+" /a/file", "OK")

	s.expect("cp /a/file /a/copy", "OK")
	s.expect("cp /a/file /a/copy", "OK")
	s.expect("cp /a/missing /a/x", "FILE NOT FOUND")
	s.expect("cp /a/file /a", "PATH NOT FOUND")
	s.expect("cp /a/file /a/"+strings.Repeat("y", 13), "NAME TOO LONG")

	s.expect("rm /a/file", "OK")
	s.expect("rm /a/file", "FILE NOT FOUND")
	s.expect("cat /a/copy", "hello")
}

func TestShell__MvAndRmdirNotEmpty(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")
	s.expect("mkdir /a", "OK")
	s.expect("mkdir /d", "OK")

	hostFile := filepath.Join(t.TempDir(), "host.txt")
	require.NoError(t, os.WriteFile(hostFile, []byte("hello"), 0o644))
	s.expect("incp "+hostFile+" /a/copy", "OK")

	s.expect("mv /a/copy /d/", "OK")
	s.expect("ls /d", "FILE: copy")
	s.expect("mv /missing /d/", "FILE NOT FOUND")

	s.expect("rmdir /a", "OK")
	s.expect("rmdir /d", "NOT EMPTY")
}

func TestShell__CdPwd(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")
	s.expect("mkdir /a", "OK")
	s.expect("mkdir /a/b", "OK")

	s.expect("pwd", "/")
	s.expect("cd /a/b", "OK")
	s.expect("pwd", "/a/b")
	s.expect("cd ..", "OK")
	s.expect("pwd", "/a")
	s.expect("cd /nope", "PATH NOT FOUND")
	s.expect("pwd", "/a")
	s.expect("cd", "OK")
	s.expect("pwd", "/")
}

func TestShell__Outcp(t *testing.T) {
	s := newSession(t)
	s.expect("format 64MB", "OK")

	hostDir := t.TempDir()
	hostSrc := filepath.Join(hostDir, "in.txt")
	require.NoError(t, os.WriteFile(hostSrc, []byte("payload"), 0o644))
	s.expect("incp "+hostSrc+" /f", "OK")

	hostDst := filepath.Join(hostDir, "sub", "out.txt")
	s.expect("outcp /f "+hostDst, "OK")

	data, err := os.ReadFile(hostDst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	s.expect("outcp /missing "+hostDst, "FILE NOT FOUND")
}

func TestShell__Load(t *testing.T) {
	s := newSession(t)

	script := filepath.Join(t.TempDir(), "script.txt")
	lines := []string{
		"format 64MB",
		"# comment lines are skipped",
		"",
		"mkdir /a",
		"mkdir /a",
	}
	require.NoError(t, os.WriteFile(script, []byte(strings.Join(lines, "\n")), 0o644))

	output := s.run("load " + script)
	assert.Equal(t, "OK\nOK\nEXIST\nOK", output,
		"replayed commands print their normal output, then a final OK")

	s.expect("load /no/such/script", "FILE NOT FOUND")
}

func TestShell__UnformattedImage(t *testing.T) {
	s := newSession(t)

	s.expect("ls", "PATH NOT FOUND")
	s.expect("cat /x", "FILE NOT FOUND")
	s.expect("statfs", "PATH NOT FOUND")
	s.expect("pwd", "/")
}

func TestShell__SessionSurvivesReopen(t *testing.T) {
	s := newSession(t)
	s.expect("format 1MB", "OK")
	s.expect("mkdir /persist", "OK")
	s.ctx.CloseFS()

	// A second session over the same image sees the flushed state.
	file, err := os.OpenFile(s.ctx.ImagePath, os.O_RDWR, 0o644)
	require.NoError(t, err)
	fs, err := elfs.Open(file)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	ctx := shell.NewContext(s.ctx.ImagePath, fs, out)
	t.Cleanup(ctx.CloseFS)

	shell.Dispatch(ctx, "ls /")
	assert.Equal(t, "DIR: persist\n", out.String())
}
