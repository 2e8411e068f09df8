package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ws-kj/wfs/block"
	"github.com/ws-kj/wfs/vfs"
)

var mkfsSize string

var mkfsCmd = &cobra.Command{
	Use:   "mkfs <image> --size <bytes>",
	Short: "Create and format a flat wFS image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := parseSize(mkfsSize)
		if err != nil {
			return err
		}
		sectors := size / block.SectorSize
		if sectors < 2 {
			return fmt.Errorf("size %d is too small for even a superblock and root entry", size)
		}

		dev, err := block.CreateFileDevice(args[0], sectors)
		if err != nil {
			return err
		}
		defer dev.Close()

		v := vfs.New()
		if _, err := v.InstallDevice(deviceName, vfs.WFS, dev); err != nil {
			return err
		}

		fmt.Println(color.GreenString("formatted %s: %d sectors (%d bytes)", args[0], sectors, sectors*block.SectorSize))
		return nil
	},
}

func init() {
	mkfsCmd.Flags().StringVar(&mkfsSize, "size", "1M", "image size, e.g. 512K, 1M, 16M")
}

func parseSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	mult := uint64(1)
	unit := s[len(s)-1]
	numPart := s
	switch unit {
	case 'K', 'k':
		mult = 1024
		numPart = s[:len(s)-1]
	case 'M', 'm':
		mult = 1024 * 1024
		numPart = s[:len(s)-1]
	case 'G', 'g':
		mult = 1024 * 1024 * 1024
		numPart = s[:len(s)-1]
	}
	var n uint64
	if _, err := fmt.Sscanf(numPart, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}
