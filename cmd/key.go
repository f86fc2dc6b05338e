package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/credential"
	"github.com/abhisek/devtutor/internal/logging"
	"github.com/abhisek/devtutor/internal/quiz"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the Gemini API key used for question generation",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Save the API key (reads stdin when no key is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read key from stdin: %w", err)
			}
			key = strings.TrimSpace(line)
		}

		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Credentials.Set(cmd.Context(), key); err != nil {
			return err
		}
		fmt.Println("Key saved:", credential.Mask(key))
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active key, masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if key, ok, err := svc.Credentials.Get(ctx); err != nil {
			return err
		} else if ok {
			fmt.Println("Saved key:", credential.Mask(key))
			return nil
		}
		if key, ok, _ := (credential.EnvSource{}).Get(ctx); ok {
			fmt.Println("Key from environment:", credential.Mask(key))
			return nil
		}
		fmt.Println("No key configured. Questions come from the offline set.")
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved key",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Credentials.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Saved key removed.")
		return nil
	},
}

var keyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Make one generation request with the active key",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := logging.IntoContext(cmd.Context(), svc.Logger)
		key, _, err := svc.Keys.Get(ctx)
		if err != nil {
			return err
		}
		if err := svc.Resolver.TestCredential(ctx, key); err != nil {
			if errors.Is(err, quiz.ErrNoCredential) {
				return errors.New("no key configured")
			}
			return fmt.Errorf("key test failed: %w", err)
		}
		fmt.Println("Key works.")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyTestCmd)
}
