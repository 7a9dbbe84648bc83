package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	redisadapter "github.com/target/bizportal/internal/adapters/redis"
	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
	"github.com/target/bizportal/internal/service"
)

const (
	defaultCommandTimeout = 30 * time.Second
	defaultListLimit      = 50
	clearToastsScanCount  = 500
)

type createUserOptions struct {
	Email    string
	Name     string
	Password string
	Role     domainauth.Role
}

type setRoleOptions struct {
	Email string
	Role  domainauth.Role
}

type listUsersOptions struct {
	Limit  int
	Offset int
	Role   *domainauth.Role
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		user, createErr := newAccountService(cmdCtx, db).CreateUser(ctx, service.CreateUserInput{
			Email:    opts.Email,
			FullName: opts.Name,
			Password: opts.Password,
			Role:     opts.Role,
		})
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return writef(os.Stdout, "created %s (%s) with role %s\n", user.Email, user.ID, user.Role)
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		user, setErr := newAccountService(cmdCtx, db).SetRole(ctx, opts.Email, opts.Role)
		if setErr != nil {
			return fmt.Errorf("set role: %w", setErr)
		}
		return writef(os.Stdout, "%s now has role %s\n", user.Email, user.Role)
	})
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseListUsersFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users, listErr := newAccountService(cmdCtx, db).List(ctx, model.UsersListOptions{
			Limit:  opts.Limit,
			Offset: opts.Offset,
			Role:   opts.Role,
		})
		if listErr != nil {
			return fmt.Errorf("list users: %w", listErr)
		}
		return printUsers(users)
	})
}

func printUsers(users []*model.User) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "EMAIL\tNAME\tROLE\tCREATED"); err != nil {
		return fmt.Errorf("print users header: %w", err)
	}
	for _, u := range users {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\n",
			u.Email,
			u.FullName,
			u.Role,
			u.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("print user row: %w", err)
		}
	}
	return tw.Flush()
}

func runClearToasts(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-toasts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	prefix := fs.String("prefix", redisadapter.DefaultNotificationPrefix, "Key prefix of the notification queues")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*prefix) == "" {
		return errors.New("--prefix is required")
	}

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	var deleted int64
	iter := client.Scan(ctx, 0, *prefix+"*", clearToastsScanCount).Iterator()
	for iter.Next(ctx) {
		n, delErr := client.Del(ctx, iter.Val()).Result()
		if delErr != nil {
			return fmt.Errorf("delete %s: %w", iter.Val(), delErr)
		}
		deleted += n
	}
	if iterErr := iter.Err(); iterErr != nil {
		return fmt.Errorf("scan notification keys: %w", iterErr)
	}

	cmdCtx.Logger.Info("cleared notification queues", "prefix", *prefix, "deleted", deleted)
	return nil
}

func parseCreateUserFlags(args []string) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createUserOptions
	var role string
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Name, "name", "", "Full name (required)")
	fs.StringVar(&opts.Password, "password", "", "Initial password (required)")
	fs.StringVar(&role, "role", string(domainauth.RoleCustomer), "Role: admin, manager, staff or customer")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Name = strings.TrimSpace(opts.Name)
	if opts.Email == "" || opts.Name == "" || opts.Password == "" {
		return createUserOptions{}, errors.New("--email, --name and --password are required")
	}

	parsed, err := parseRoleFlag(role)
	if err != nil {
		return createUserOptions{}, err
	}
	opts.Role = parsed
	return opts, nil
}

func parseSetRoleFlags(args []string) (setRoleOptions, error) {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts setRoleOptions
	var role string
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&role, "role", "", "New role (required)")

	if err := fs.Parse(args); err != nil {
		return setRoleOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return setRoleOptions{}, errors.New("--email is required")
	}

	parsed, err := parseRoleFlag(role)
	if err != nil {
		return setRoleOptions{}, err
	}
	opts.Role = parsed
	return opts, nil
}

func parseListUsersFlags(args []string) (listUsersOptions, error) {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listUsersOptions{Limit: defaultListLimit}
	var role string
	fs.IntVar(&opts.Limit, "limit", defaultListLimit, "Maximum number of accounts to print")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of accounts to skip")
	fs.StringVar(&role, "role", "", "Only list accounts with this role")

	if err := fs.Parse(args); err != nil {
		return listUsersOptions{}, err
	}

	if opts.Limit <= 0 {
		return listUsersOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return listUsersOptions{}, errors.New("--offset must not be negative")
	}

	if strings.TrimSpace(role) != "" {
		parsed, err := parseRoleFlag(role)
		if err != nil {
			return listUsersOptions{}, err
		}
		opts.Role = &parsed
	}
	return opts, nil
}

func parseRoleFlag(value string) (domainauth.Role, error) {
	role := domainauth.ParseRole(value)
	if !role.IsKnown() {
		return domainauth.RoleNone, fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}
