package commands

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setUsernameCmd)
	rootCmd.AddCommand(setPasswordCmd)
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var setUsernameCmd = &cobra.Command{
	Use:   "set-username",
	Short: "Store the portal login email or staff code.",
	Run: func(cmd *cobra.Command, args []string) {
		username, err := prompt("Email address or staff code: ")
		if err != nil {
			log.Fatal(err)
		}
		err = service.SetUsername(cmd.Context(), username)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Username stored.")
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the portal login password.",
	Run: func(cmd *cobra.Command, args []string) {
		password, err := prompt("Password: ")
		if err != nil {
			log.Fatal(err)
		}
		err = service.SetPassword(cmd.Context(), password)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Password stored.")
	},
}
