package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"ncmconv/internal/ncm"
	"ncmconv/internal/transcode"
)

// sniffLength is how much audio is deciphered to classify the payload.
const sniffLength = 512

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <file>",
		Short:       "Show the section layout of a container",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ncm.ReadFile(args[0])
			if err != nil {
				return err
			}
			container, err := ncm.Parse(data)
			if err != nil {
				return err
			}
			key, err := ncm.DeriveKey(container.Key)
			if err != nil {
				return err
			}
			table, err := ncm.NewTable(key)
			if err != nil {
				return err
			}

			// Only the head of the payload is needed to classify it.
			head := make([]byte, min(sniffLength, len(container.Audio)))
			if _, err := io.ReadFull(ncm.NewReader(bytes.NewReader(container.Audio), table), head); err != nil {
				return fmt.Errorf("decrypt audio head: %w", err)
			}
			format := ncm.Sniff(head)

			tbl := newOutputTable(column{title: "Field"}, column{title: "Value", right: true})
			tbl.add("File", args[0])
			tbl.add("Size", strconv.Itoa(len(data)))
			tbl.add("Key section", strconv.Itoa(len(container.Key)))
			tbl.add("Derived key", strconv.Itoa(len(key)))
			tbl.add("Metadata", strconv.Itoa(len(container.Metadata)))
			tbl.add("Image", strconv.Itoa(len(container.Image)))
			tbl.add("Audio offset", strconv.Itoa(container.AudioOffset))
			tbl.add("Audio", strconv.Itoa(len(container.Audio)))
			tbl.add("Format", format.String())
			if format != ncm.FormatFLAC {
				tbl.add("Transcoder input", transcode.InputExtension(head))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return nil
		},
	}
}
