package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/crowdscan-backend-go/internal/middleware"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed token for officer mode",
	Long: `Mint an HS256 token signed with JWT_SECRET. Send it as
"Authorization: Bearer <token>" to request officer-mode summaries when
REQUIRE_OFFICER_TOKEN is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := middleware.IssueToken(cfg.JWTSecret, tokenSubject, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "control-room", "Token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleOfficer, "Role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "Token lifetime")
}
