package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the portal with the stored credentials.",
	Run: func(cmd *cobra.Command, args []string) {
		err := service.Login(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Logged in!")
	},
}
