package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/neuralspace/internal/auth"
)

var (
	adminUsername string
	adminPassword string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		return createAdmin(
			cmd.Context(),
			auth.NewAdminRepo(pool),
			auth.NewHasher(),
			adminUsername, adminPassword, adminEmail,
			cmd.OutOrStdout(),
		)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <plaintext>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.NewHasher().Hash(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
		return err
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (optional)")
	_ = createAdminCmd.MarkFlagRequired("password")
}

type adminCreator interface {
	CreateAdmin(ctx context.Context, admin *auth.Admin) error
}

type hasher interface {
	Hash(plaintext string) (string, error)
}

// createAdmin is a no-op, reported on out, when the username is taken.
func createAdmin(
	ctx context.Context,
	admins adminCreator,
	hasher hasher,
	username, password, email string,
	out io.Writer,
) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &auth.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if email != "" {
		admin.Email = &email
	}

	err = admins.CreateAdmin(ctx, admin)
	if errors.Is(err, auth.ErrAdminExists) {
		log.Warnf("admin [%s] already exists", username)
		_, err = fmt.Fprintf(out, "admin %q already exists, nothing to do\n", username)
		return err
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	_, err = fmt.Fprintf(out, "admin %q created (id %d)\n", username, admin.ID)
	return err
}
