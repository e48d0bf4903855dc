package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/broady/objmodel/cmd/objmodel/internal/check"
	"github.com/broady/objmodel/member"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Parse   ParseCmd   `cmd:"" help:"Print the metadata of member keys as JSON."`
	Check   check.Cmd  `cmd:"" help:"Declare the types of a manifest and report the result."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type ParseCmd struct {
	Keys []string `arg:"" help:"Member keys, e.g. 'public read number count'."`
}

func (c *ParseCmd) Run() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, key := range c.Keys {
		meta, err := member.Parse(key, nil)
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		if err := enc.Encode(meta); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("objmodel"),
		kong.Description("Inspect and check object-model declarations."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
