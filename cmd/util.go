// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/iafan/cwalk"
	"github.com/klauspost/pgzip"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	logging "github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// log is the package-level logger every subcommand writes progress and
// diagnostics through; addLog wires its backend(s).
var log = logging.MustGetLogger("stellar")

// Options holds the global, subcommand-independent flags: thread count
// and logging behavior.
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	opt := &Options{
		NumCPUs:  threads,
		Verbose:  !getFlagBool(cmd, "quiet"),
		LogFile:  logfile,
		Log2File: logfile != "",
	}
	addLog(opt.LogFile, opt.Verbose)
	return opt
}

// addLog configures the backend(s) for the package-level log: a
// colorized stderr backend always, plus a plain file backend when
// logfile is non-empty. Returns the log file's handle, left open for
// the life of the process and closed on exit.
func addLog(logfile string, verbose bool) *os.File {
	level := logging.INFO
	if !verbose {
		level = logging.WARNING
	}

	format := logging.MustStringFormatter(`%{color}[%{level:.4s}]%{color:reset} %{message}`)
	stderrBackend := logging.NewLogBackend(colorable.NewColorableStderr(), "", 0)
	stderrFormatter := logging.NewBackendFormatter(stderrBackend, format)
	stderrLeveled := logging.AddModuleLevel(stderrFormatter)
	stderrLeveled.SetLevel(level, "")

	if logfile == "" {
		logging.SetBackend(stderrLeveled)
		return nil
	}

	fh, err := os.Create(logfile)
	checkError(errors.Wrap(err, "creating log file"))

	fileFormat := logging.MustStringFormatter(`[%{level:.4s}] %{message}`)
	fileBackend := logging.NewLogBackend(fh, "", 0)
	fileFormatter := logging.NewBackendFormatter(fileBackend, fileFormat)
	fileLeveled := logging.AddModuleLevel(fileFormatter)
	fileLeveled.SetLevel(level, "")

	logging.SetBackend(stderrLeveled, fileLeveled)
	return fh
}

func isStdin(file string) bool { return file == "-" }

// seqFilePattern matches the FASTA/FASTQ file names getFileListFromDir
// collects when a --queries/--database argument turns out to be a
// directory rather than a single file.
var seqFilePattern = regexp.MustCompile(`(?i)\.(fa|fasta|fna|fq|fastq)(\.gz|\.xz|\.bz2|\.zst)?$`)

// resolveInputFiles expands path into the file(s) it names: stdin ("-")
// and a plain file pass through unchanged, a directory is parallel-
// walked (cwalk, via getFileListFromDir) for every FASTA/FASTQ file it
// contains, supporting multi-file --queries/--database input.
func resolveInputFiles(path string, threads int) []string {
	if isStdin(path) {
		return []string{path}
	}
	info, err := os.Stat(path)
	checkError(errors.Wrapf(err, "input file or directory not found: %s", path))
	if !info.IsDir() {
		return []string{path}
	}
	files, err := getFileListFromDir(path, seqFilePattern, threads)
	checkError(errors.Wrapf(err, "walking directory: %s", path))
	if len(files) == 0 {
		checkError(fmt.Errorf("no FASTA/FASTQ files found in directory: %s", path))
	}
	return files
}

func makeOutDir(outDir string, force bool, logname string, verbose bool) {
	pwd, _ := os.Getwd()
	if outDir == "./" || outDir == "." || pwd == filepath.Clean(outDir) {
		checkError(fmt.Errorf("%s should not be the current directory", logname))
	}

	existed, err := pathutil.DirExists(outDir)
	checkError(errors.Wrap(err, outDir))
	if existed {
		empty, err := pathutil.IsEmpty(outDir)
		checkError(errors.Wrap(err, outDir))
		if !empty {
			if !force {
				checkError(fmt.Errorf("%s not empty: %s, use --force to overwrite", logname, outDir))
			}
			if verbose {
				log.Infof("removing old output directory: %s", outDir)
			}
		}
		checkError(os.RemoveAll(outDir))
	}
	checkError(os.MkdirAll(outDir, 0777))
}

// getFileListFromDir parallel-walks path via cwalk, collecting files
// whose name matches pattern.
func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}
	return files, nil
}

// outStream opens outFile for writing, wrapping it with a parallel
// gzip writer (pgzip) when gzipped, and a buffered writer on top.
func outStream(outFile string, gzipped bool, level int) (*bufio.Writer, *pgzip.Writer, io.WriteCloser, error) {
	var w io.WriteCloser
	if outFile == "-" || outFile == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(outFile)
		if err != nil {
			return nil, nil, nil, err
		}
		w = f
	}

	if !gzipped {
		return bufio.NewWriterSize(w, 1<<20), nil, w, nil
	}

	if level < 1 || level > 9 {
		level = 6
	}
	gw, err := pgzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, nil, nil, err
	}
	return bufio.NewWriterSize(gw, 1<<20), gw, w, nil
}
