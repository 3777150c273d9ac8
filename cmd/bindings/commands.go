package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/milk9111/rebind/bindings"
	"github.com/milk9111/rebind/ebinput"
	"github.com/milk9111/rebind/logging"
)

func newPathCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the bindings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), e.store.Path())
			return nil
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	var changedOnly bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every rebindable binding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := e.store.Current()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BINDING\tPATH\tNAME\tDEFAULT")
			for _, k := range current.Keys() {
				path := current[k]
				def, _ := e.store.Default(k)
				if changedOnly && path == def {
					continue
				}
				marker := def
				if path == def {
					marker = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, path, displayName(path), marker)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "Only list bindings that differ from the default")
	return cmd
}

func newSetCmd(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set <action:index> <path>",
		Short: "Point one binding at a new control",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, def, err := e.slot(args[0])
			if err != nil {
				return err
			}
			c, err := ebinput.ParsePath(args[1])
			if err != nil {
				return err
			}
			if want := ebinput.GroupOf(def); !force && c.Group() != want {
				return fmt.Errorf("%s belongs to the %s group, %s is %s (use --force)", k, want, c.Path(), c.Group())
			}

			e.store.Set(k, c.Path())
			if err := e.store.SaveCurrent(); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info().Stringer("key", k).Str("path", c.Path()).Msg("binding saved")
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, c.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Allow a control from another binding group")
	return cmd
}

func newResetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [action:index]",
		Short: "Restore default bindings",
		Long:  "Restore one binding, or every binding when no slot is given, and save the result.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.FromContext(cmd.Context())
			if len(args) == 0 {
				if err := e.store.ResetToDefault(nil); err != nil {
					return err
				}
				log.Info().Str("path", e.store.Path()).Msg("bindings reset")
				fmt.Fprintln(cmd.OutOrStdout(), "all bindings reset")
				return nil
			}

			k, def, err := e.slot(args[0])
			if err != nil {
				return err
			}
			e.store.Set(k, def)
			if err := e.store.SaveCurrent(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, def)
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var toClipboard bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the current bindings in file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bindings.Encode(e.store.Current())
			if err != nil {
				return err
			}
			if !toClipboard {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := clipboard.Init(); err != nil {
				return fmt.Errorf("clipboard unavailable: %w", err)
			}
			clipboard.Write(clipboard.FmtText, data)
			fmt.Fprintln(cmd.OutOrStdout(), "bindings copied to clipboard")
			return nil
		},
	}
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy to the clipboard instead of printing")
	return cmd
}

func newPathsCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List every control path a binding can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range ebinput.KnownPaths(group) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "Only list keyboard or gamepad paths")
	return cmd
}

func displayName(path string) string {
	c, err := ebinput.ParsePath(path)
	if err != nil {
		return "?"
	}
	return c.DisplayName()
}
