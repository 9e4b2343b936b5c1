// Command tronctl is a small inspection and conversion tool for TRON
// documents: convert to and from JSON, compact a buffer's history away,
// normalize it to the reference encoder's layout, merge two map documents,
// read a single path, and report basic size statistics.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	tron "github.com/tronfmt/tron"
)

type encodeCmd struct {
	In  string `help:"Input JSON file, - for stdin." default:"-"`
	Out string `help:"Output file, - for stdout." default:"-"`
}

func (c *encodeCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	doc, err := tron.FromJSON(data)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, doc)
}

type decodeCmd struct {
	In  string `help:"Input TRON file, - for stdin." default:"-"`
	Out string `help:"Output file, - for stdout." default:"-"`
}

func (c *decodeCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	js, err := tron.ToJSON(data)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, []byte(js+"\n"))
}

type vacuumCmd struct {
	In  string `help:"Input TRON file, - for stdin." default:"-"`
	Out string `help:"Output file, - for stdout." default:"-"`
}

func (c *vacuumCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	out, err := tron.Vacuum(data)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, out)
}

type canonicalCmd struct {
	In  string `help:"Input TRON file, - for stdin." default:"-"`
	Out string `help:"Output file, - for stdout." default:"-"`
}

func (c *canonicalCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	out, err := tron.Canonical(data)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, out)
}

type mergeCmd struct {
	Left  string `arg:"" help:"Left TRON document (map root)."`
	Right string `arg:"" help:"Right TRON document (map root), wins on conflicting keys."`
	Out   string `help:"Output file, - for stdout." default:"-"`
}

func (c *mergeCmd) Run() error {
	left, err := os.ReadFile(c.Left)
	if err != nil {
		return err
	}
	right, err := os.ReadFile(c.Right)
	if err != nil {
		return err
	}
	out, err := tron.MergeMapDocuments(left, right)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, out)
}

type getCmd struct {
	In   string `help:"Input TRON file, - for stdin." default:"-"`
	Path string `arg:"" help:"Dotted path, e.g. users.0.name."`
}

func (c *getCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	view, err := tron.NewView(data, tron.ViewOptions{I64Mode: tron.I64Auto})
	if err != nil {
		return err
	}
	path, err := parsePath(c.Path)
	if err != nil {
		return err
	}
	val, ok, err := view.Read(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("path not found: %s", c.Path)
	}
	if _, isView := val.(*tron.View); isView {
		tr, err := tron.ParseTrailer(data)
		if err != nil {
			return err
		}
		cur := tron.Value{Offset: tr.RootOffset}
		for _, seg := range path {
			if seg.IsIndex {
				cur, _, err = tron.ArrGet(data, cur.Offset, seg.Index)
			} else {
				cur, _, err = tron.MapGet(data, cur.Offset, []byte(seg.Key))
			}
			if err != nil {
				return err
			}
		}
		sub := tron.AppendTrailer(append([]byte{}, data[:len(data)-tron.TrailerSize]...), tron.Trailer{RootOffset: cur.Offset})
		js, err := tron.ToJSON(sub)
		if err != nil {
			return err
		}
		fmt.Println(js)
		return nil
	}
	fmt.Printf("%v\n", val)
	return nil
}

type statCmd struct {
	In string `help:"Input TRON file, - for stdin." default:"-"`
}

func (c *statCmd) Run() error {
	data, err := readInput(c.In)
	if err != nil {
		return err
	}
	docType, err := tron.DetectDocType(data)
	if err != nil {
		return err
	}
	fmt.Printf("size:     %s (%d bytes)\n", humanize.Bytes(uint64(len(data))), len(data))
	fmt.Printf("type:     %s\n", docType)
	if docType == tron.DocTree {
		tr, err := tron.ParseTrailer(data)
		if err != nil {
			return err
		}
		nodes, err := tron.CountNodes(data, tr.RootOffset)
		if err != nil {
			return err
		}
		fmt.Printf("root:     0x%x\n", tr.RootOffset)
		fmt.Printf("prevRoot: 0x%x\n", tr.PrevRootOffset)
		fmt.Printf("nodes:    %d\n", nodes)
	}
	return nil
}

var cli struct {
	Encode    encodeCmd    `cmd:"" help:"Encode JSON into a TRON document."`
	Decode    decodeCmd    `cmd:"" help:"Decode a TRON document into JSON."`
	Vacuum    vacuumCmd    `cmd:"" help:"Compact a document, dropping history."`
	Canonical canonicalCmd `cmd:"" help:"Rewrite a document to the reference encoder's normal form."`
	Merge     mergeCmd     `cmd:"" help:"Merge two map documents, right wins on conflicts."`
	Get       getCmd       `cmd:"" help:"Read a single path out of a document."`
	Stat      statCmd      `cmd:"" help:"Print size and node-count statistics."`
}

func main() {
	log.SetFlags(0)
	ctx := kong.Parse(&cli,
		kong.Name("tronctl"),
		kong.Description("Inspect and convert TRON binary documents."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func parsePath(s string) (tron.Path, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	path := make(tron.Path, 0, len(parts))
	for _, p := range parts {
		if idx, err := strconv.ParseUint(p, 10, 32); err == nil {
			path = append(path, tron.Elem(uint32(idx)))
			continue
		}
		path = append(path, tron.Field(p))
	}
	return path, nil
}
