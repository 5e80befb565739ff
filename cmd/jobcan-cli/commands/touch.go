package commands

import (
	"fmt"
	"log"

	"jobcan-assist/services/attendance"

	"github.com/spf13/cobra"
)

var (
	touchGroup      int
	touchNote       string
	touchNightShift bool
)

func init() {
	touchCmd.Flags().IntVar(&touchGroup, "group", 0, "Attendance group id to record against (default: the portal's default group).")
	touchCmd.Flags().StringVar(&touchNote, "note", "", "Note to attach to the record.")
	touchCmd.Flags().BoolVar(&touchNightShift, "night-shift", false, "Record the time as night shift.")
	rootCmd.AddCommand(touchCmd)
}

var touchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Clock in or out (flips the current work state).",
	Run: func(cmd *cobra.Command, args []string) {
		service.SetNightShift(touchNightShift)

		result, err := service.Touch(cmd.Context(), attendance.TouchOptions{
			GroupId: touchGroup,
			Note:    touchNote,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Done, you are now %s.\n", result.CurrentStatus)
	},
}
