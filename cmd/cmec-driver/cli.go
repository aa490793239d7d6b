package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	cmecdriver "github.com/cmecmetrics/cmec-driver"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cmec-driver",
		Short:         "Register and run CMEC-compliant evaluation modules",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "print additional detail")
	root.PersistentFlags().BoolP("quiet", "q", false, "only print requested information and errors")
	root.AddCommand(
		newRegisterCommand(),
		newUnregisterCommand(),
		newListCommand(),
		newRunCommand(),
		newSetupCommand(),
	)
	return root
}

func makeDriver(cmd *cobra.Command) (cmecdriver.Driver, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	verbosity := cmecdriver.DefaultVerbosity
	if verbose {
		verbosity = cmecdriver.VerboseMode
	}
	if quiet {
		verbosity = cmecdriver.QuietMode
	}

	confirm := AutoDecline(quiet)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm = PromptUser(term.IsTerminal(int(os.Stdout.Fd())))
	}

	return cmecdriver.New(cmecdriver.Config{
		Verbosity: verbosity,
		Confirm:   confirm,
	})
}

func newRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <module directory>",
		Short: "Add a module to the CMEC library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := makeDriver(cmd)
			if err != nil {
				return err
			}
			return driver.Register(args[0])
		},
	}
}

func newUnregisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <module name>",
		Short: "Remove a module from the CMEC library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := makeDriver(cmd)
			if err != nil {
				return err
			}
			return driver.Unregister(args[0])
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [all]",
		Short: "Show the registered modules",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("accepts at most 1 arg, received %d", len(args))
			}
			if len(args) == 1 && args[0] != "all" {
				return fmt.Errorf("unknown argument %q (did you mean \"all\"?)", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := makeDriver(cmd)
			if err != nil {
				return err
			}
			return driver.List(len(args) == 1)
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <obs dir> <model dir> <output dir> <module>[/<configuration>] ...",
		Short: "Execute the driver scripts of registered modules",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := makeDriver(cmd)
			if err != nil {
				return err
			}
			return driver.Run(cmd.Context(), args[0], args[1], args[2], args[3:])
		},
	}
}

func newSetupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure the conda locations exported to driver scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := makeDriver(cmd)
			if err != nil {
				return err
			}
			condaSource, _ := cmd.Flags().GetString("conda-source")
			envRoot, _ := cmd.Flags().GetString("env-root")
			clearConda, _ := cmd.Flags().GetBool("clear-conda")
			printConda, _ := cmd.Flags().GetBool("print-conda")
			return driver.Setup(cmecdriver.SetupOptions{
				CondaSource: condaSource,
				EnvRoot:     envRoot,
				ClearConda:  clearConda,
				PrintConda:  printConda,
			})
		},
	}
	cmd.Flags().String("conda-source", "", "path of the conda initialization script")
	cmd.Flags().String("env-root", "", "directory containing the conda environments")
	cmd.Flags().Bool("clear-conda", false, "remove the stored conda settings")
	cmd.Flags().Bool("print-conda", false, "show the stored conda settings")
	return cmd
}
