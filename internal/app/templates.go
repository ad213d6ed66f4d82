package app

import "embed"

// templateFS holds the page shell bundled with the binary.
//
//go:embed templates/*
var templateFS embed.FS
