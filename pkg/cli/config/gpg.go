package config

import (
	"github.com/m-mizutani/ossrh-publisher/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// GPG holds signing configuration
type GPG struct {
	Passphrase string `masq:"secret"`
	KeyID      string
	GPG        string
	MD5Sum     string
	SHA1Sum    string
}

// Flags returns CLI flags for signing configuration
func (c *GPG) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gpg-passphrase",
			Usage:       "Passphrase of the signing key",
			Destination: &c.Passphrase,
			Sources:     cli.EnvVars("GPGPASS"),
		},
		&cli.StringFlag{
			Name:        "gpg-key-id",
			Usage:       "Signing key id. The gpg default key when empty",
			Destination: &c.KeyID,
			Sources:     cli.EnvVars("OSSRH_GPG_KEY_ID"),
		},
		&cli.StringFlag{
			Name:        "gpg",
			Usage:       "gpg binary",
			Value:       "gpg",
			Destination: &c.GPG,
			Sources:     cli.EnvVars("OSSRH_GPG"),
		},
		&cli.StringFlag{
			Name:        "md5sum",
			Usage:       "md5sum binary",
			Value:       "md5sum",
			Destination: &c.MD5Sum,
			Sources:     cli.EnvVars("OSSRH_MD5SUM"),
		},
		&cli.StringFlag{
			Name:        "sha1sum",
			Usage:       "sha1sum binary",
			Value:       "sha1sum",
			Destination: &c.SHA1Sum,
			Sources:     cli.EnvVars("OSSRH_SHA1SUM"),
		},
	}
}

// SignerOptions converts the configuration into Signer options
func (c *GPG) SignerOptions() []usecase.SignerOption {
	opts := []usecase.SignerOption{
		usecase.WithBinaries(c.MD5Sum, c.SHA1Sum, c.GPG),
	}
	if c.KeyID != "" {
		opts = append(opts, usecase.WithKeyID(c.KeyID))
	}
	return opts
}
