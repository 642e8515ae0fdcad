package ui

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// copyToClipboard puts text on the system clipboard. When no native
// clipboard tool is available (headless or remote sessions) it falls
// back to an OSC 52 escape written to the controlling terminal, which
// modern terminal emulators translate into a clipboard write.
func copyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	return copyOSC52(text)
}

func copyOSC52(text string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("no clipboard and no tty: %w", err)
	}
	defer tty.Close()
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err = fmt.Fprintf(tty, "\x1b]52;c;%s\x07", encoded)
	return err
}
