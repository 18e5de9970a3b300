// Package config reads ncmconv's TOML configuration.
//
// Load resolves the file (explicit path, then ~/.config/ncmconv/config.toml,
// then ./ncmconv.toml), starts from Default, expands ~ in every path,
// applies the NCMCONV_FFMPEG override and validates the result. Unknown keys
// are rejected so typos surface instead of silently falling back to
// defaults.
package config
