// Command windowrankctl streams whitespace-separated floating point
// numbers from stdin through a windowrank.WindowRanker and prints each
// value's rank, demonstrating the library the way a real consumer would.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/joeycumines/windowrank"
)

var app = &cli.App{
	Name:  "windowrankctl",
	Usage: "stream values through a trailing-window rank",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "window",
			Usage: "trailing window size N (0 selects windowrank.Unbounded)",
			Value: 0,
		},
		&cli.IntFlag{
			Name:  "partitions",
			Usage: "number of chunks K0 (0 selects the library default: floor(sqrt(N)), or 1 for an unbounded window)",
			Value: 0,
		},
	},
	Action: func(c *cli.Context) error {
		return run(c.Int("window"), c.Int("partitions"), os.Stdin, os.Stdout)
	},
}

func run(window, partitions int, in io.Reader, out io.Writer) error {
	var opts []windowrank.Option[float64]
	n := window
	if n <= 0 {
		n = windowrank.Unbounded
	}
	opts = append(opts, windowrank.WithWindowSize[float64](n))
	if partitions > 0 {
		opts = append(opts, windowrank.WithPartitions[float64](partitions))
	}

	ranker, err := windowrank.NewOrdered[float64](nil, opts...)
	if err != nil {
		return fmt.Errorf(`windowrankctl: %w`, err)
	}
	defer ranker.Destroy()

	w := bufio.NewWriter(out)
	defer w.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		x, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return fmt.Errorf(`windowrankctl: parse %q: %w`, scanner.Text(), err)
		}
		rank := ranker.Observe(x)
		if _, err := fmt.Fprintf(w, "%v\t%v\n", x, rank); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
