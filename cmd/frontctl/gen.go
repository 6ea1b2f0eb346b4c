package main

import (
	"fmt"
	"os"

	"github.com/joeydtaylor/frontctl/pkg/codegen"
	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/joeydtaylor/frontctl/pkg/scan"
	"github.com/spf13/cobra"
)

func genCmd() *cobra.Command {
	var (
		root      string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate routes_gen.go registration files",
		Long: `Scan a namespace under a source directory and write a routes_gen.go
into every package that declares routes. The generated init functions
register each tagged method with the default registry, which is how the
server finds compiled code for a scanned descriptor.

Examples:
  frontctl gen                                   # namespace from manifest.toml, root "."
  frontctl gen --namespace internal.controllers  # no manifest needed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := genNamespace(cmd, namespace)
			if err != nil {
				return err
			}
			if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
				return fmt.Errorf("%w: %s is not a directory", core.ErrRootUnavailable, root)
			}

			res, err := scan.New(ns, []string{root}).Scan(background(cmd))
			if err != nil {
				return err
			}
			for _, sk := range res.Skipped {
				warn(cmd, "%s", sk.Error())
			}
			if len(res.Descriptors) == 0 {
				warn(cmd, "no routes found under %s in %s", ns, root)
				return nil
			}
			for _, pkgNS := range codegen.Namespaces(res.Descriptors) {
				dst, err := codegen.WriteDir(root, pkgNS, res.Descriptors)
				if err != nil {
					return fmt.Errorf("%s: %w", pkgNS, err)
				}
				success(cmd, "Generated %s", dst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "source directory the namespace is resolved against")
	cmd.Flags().StringVar(&namespace, "namespace", "", "controller namespace (default from the manifest)")
	return cmd
}

func genNamespace(cmd *cobra.Command, flag string) (manifest.Namespace, error) {
	if flag != "" {
		return manifest.ParseNamespace(flag)
	}
	man, err := core.LoadConfig(manifestFlag(cmd))
	if err != nil {
		return "", err
	}
	return man.Namespace(), nil
}
