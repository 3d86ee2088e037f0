// Command optoken mints an operator access token for the session routes
// of the booking API.  It signs with JWT_SECRET and prints the token.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/cinema-booking-engine/internal/config"
	"github.com/iliyamo/cinema-booking-engine/internal/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "optoken: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	var subject, role string
	var ttl time.Duration
	flagSet := pflag.NewFlagSet("optoken", pflag.ContinueOnError)
	flagSet.StringVarP(&subject, "sub", "s", "operator", "operator name stored in the sub claim")
	flagSet.StringVar(&role, "role", utils.RoleOperator, "role claim")
	flagSet.DurationVar(&ttl, "ttl", config.AccessTokenTTL(), "token lifetime (default from ACCESS_TOKEN_TTL_MIN)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	tok, err := utils.NewAccessToken(os.Getenv("JWT_SECRET"), subject, role, ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
	return nil
}
