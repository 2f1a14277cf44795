package nlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// EndOfText is the line a command engine writes after the CoNLL-U of each
// input line.
const EndOfText = "# eot"

// CommandEngine keeps an external annotation program (for example a spaCy
// pipeline with spacy_conll) running for the life of the process.
//
// The program reads one text per line on stdin and answers with its CoNLL-U
// followed by the EndOfText line. It is started on the first Parse call;
// calls are serialized.
type CommandEngine struct {
	Path string
	Args []string

	once     sync.Once
	startErr error

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	closed bool
}

func NewCommandEngine(path string, args ...string) *CommandEngine {
	return &CommandEngine{Path: path, Args: args}
}

func (e *CommandEngine) start() error {
	cmd := exec.Command(e.Path, e.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.Path, err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.stdout = bufio.NewReaderSize(stdout, 64*1024)
	return nil
}

// Parse sends text, with line breaks folded into spaces, and reads the
// answer up to the EndOfText line.
func (e *CommandEngine) Parse(ctx context.Context, text string) ([]byte, error) {
	e.once.Do(func() {
		e.startErr = e.start()
	})
	if e.startErr != nil {
		return nil, e.startErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line := strings.Join(strings.Fields(text), " ")
	if _, err := io.WriteString(e.stdin, line+"\n"); err != nil {
		return nil, fmt.Errorf("write to %s: %w", e.Path, err)
	}

	var out strings.Builder
	for {
		l, err := e.stdout.ReadString('\n')
		if strings.TrimRight(l, "\r\n") == EndOfText {
			break
		}
		out.WriteString(l)
		if err != nil {
			return nil, fmt.Errorf("read from %s: %w", e.Path, err)
		}
	}

	return []byte(out.String()), nil
}

// Close stops the program, if it was started.
func (e *CommandEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.cmd == nil {
		e.closed = true
		return nil
	}
	e.closed = true

	if err := e.stdin.Close(); err != nil {
		return err
	}
	return e.cmd.Wait()
}
