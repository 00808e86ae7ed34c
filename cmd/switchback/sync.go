package main

import (
	"github.com/spf13/cobra"
	gsync "github.com/stefanpenner/switchback/pkg/sync"
	"go.uber.org/zap"
)

var initRemote string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Make the data directory a git repository",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return gsync.InitRepo(cmd.Context(), a.dir, initRemote, cmd.OutOrStdout())
	}),
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit local changes and sync them with the remote",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		if err := gsync.SyncRepo(cmd.Context(), a.dir, cmd.OutOrStdout()); err != nil {
			a.logger.Error("sync failed", zap.Error(err))
			return err
		}
		a.logger.Info("sync complete")
		return nil
	}),
}

func init() {
	initCmd.Flags().StringVar(&initRemote, "remote", "", "remote url for origin")

	rootCmd.AddCommand(initCmd, syncCmd)
}
