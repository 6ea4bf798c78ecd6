// Package stages builds the exact command lines for the snapshot
// transformation stages. Builders are pure functions of the validated
// configuration; they perform no I/O, which keeps them independently
// testable.
package stages

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"mvdan.cc/sh/v3/syntax"

	"github.com/detmach/snapsmith/lib/images"
	"github.com/detmach/snapsmith/lib/sandbox"
)

const (
	// BlockSize is the fixed filesystem block size; slack allowances are
	// rounded up to whole blocks.
	BlockSize = 4096

	driveLabel = "root"
)

// ExportRootfsCommand flattens a portable image archive into a gnutar rootfs
// archive. The export and reformat steps run as an explicit shell pipeline
// with pipefail so each sub-step's failure is independently observable.
func ExportRootfsCommand() []string {
	script := strings.Join([]string{
		"set -o pipefail",
		quoteWords("crane", "export", "-", "-") + " < " + quote(sandbox.InputMount) +
			" | " + quoteWords("bsdtar", "-cf", sandbox.OutputPath, "--format=gnutar", "@-"),
	}, "; ")
	return []string{"/bin/sh", "-c", script}
}

// BuildFilesystemCommand converts the rootfs archive into a fixed-block ext2
// image with extraBytes of slack. Timestamps are faked so identical input
// produces byte-identical images.
func BuildFilesystemCommand(extraBytes int64) []string {
	blocks := (extraBytes + BlockSize - 1) / BlockSize
	return []string{
		"xgenext2fs",
		"--block-size", strconv.Itoa(BlockSize),
		"--faketime",
		"--readjustment", "+" + strconv.FormatInt(blocks, 10),
		"--tarball", sandbox.InputMount,
		sandbox.OutputPath,
	}
}

// StoreSnapshotCommand invokes the machine emulator to boot the filesystem
// image once and store the resulting snapshot.
func StoreSnapshotCommand(cfg *images.BuildConfig) []string {
	args := []string{
		"detmach-machine",
		"--ram-size=" + cfg.RAMSize,
		"--drive=label:" + driveLabel + ",filename:" + sandbox.InputMount,
		"--store=" + sandbox.OutputPath,
	}
	if cfg.WorkingDir != "" {
		args = append(args, "--workdir="+cfg.WorkingDir)
	}
	args = append(args, lo.Map(cfg.Env, func(e string, _ int) string {
		return "--env=" + e
	})...)
	return append(args, "--", cfg.BootCommand())
}

// quote renders one word safe for /bin/sh.
func quote(word string) string {
	quoted, err := syntax.Quote(word, syntax.LangPOSIX)
	if err != nil {
		// Quote only fails on NUL bytes, which cannot appear in the
		// fixed paths and tool names used here.
		return word
	}
	return quoted
}

func quoteWords(words ...string) string {
	quoted := lo.Map(words, func(w string, _ int) string { return quote(w) })
	return strings.Join(quoted, " ")
}
