package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/saloonhub/saloonstore/saloon"
	"github.com/saloonhub/saloonstore/saloon/service"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var offset, limit uint64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saloons in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				total, err := s.Count(ctx)

				if err != nil {
					return err
				}

				saloons, err := s.List(ctx, offset, limit)

				if err != nil {
					return err
				}

				return out.success(ListResult{Total: total, Offset: offset, Saloons: saloons})
			})
		},
	}

	cmd.Flags().Uint64Var(&offset, "offset", 0, "number of saloons to skip")
	cmd.Flags().Uint64Var(&limit, "limit", 20, "maximum number of saloons to return")

	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one saloon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])

			if err != nil {
				return err
			}

			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.Get(ctx, id))
			})
		},
	}
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var payload saloon.SaloonPayload

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a saloon owned by the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.Create(ctx, rootOpts.Caller, payload))
			})
		},
	}

	saloonPayloadFlags(cmd, &payload)

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var payload saloon.SaloonPayload

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name, location and url of a saloon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])

			if err != nil {
				return err
			}

			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.Update(ctx, rootOpts.Caller, id, payload))
			})
		},
	}

	saloonPayloadFlags(cmd, &payload)

	return cmd
}

// NewAddServiceCommand creates the add-service command.
func NewAddServiceCommand(rootOpts *RootOptions) *cobra.Command {
	var payload saloon.ServicePayload

	cmd := &cobra.Command{
		Use:   "add-service <id>",
		Short: "Add a service to a saloon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])

			if err != nil {
				return err
			}

			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.AddService(ctx, rootOpts.Caller, id, payload))
			})
		},
	}

	cmd.Flags().StringVar(&payload.ServiceName, "name", "", "service name")
	cmd.Flags().StringVar(&payload.ServiceDescription, "description", "", "service description")

	return cmd
}

// NewDeleteServiceCommand creates the delete-service command.
func NewDeleteServiceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-service <id> <service-name>",
		Short: "Remove every service with the given name from a saloon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])

			if err != nil {
				return err
			}

			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.DeleteService(ctx, rootOpts.Caller, id, args[1]))
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saloon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])

			if err != nil {
				return err
			}

			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				return out.result(s.Delete(ctx, rootOpts.Caller, id))
			})
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var name, location string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find saloons by exact name or location",
		Example: `  saloonctl search --name "Joe's"
  saloonctl search --location NYC`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, s *service.Service, out output) error {
				if cmd.Flags().Changed("name") {
					return out.result(s.SearchByName(ctx, name))
				}

				return out.result(s.SearchByLocation(ctx, location))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "exact saloon name")
	cmd.Flags().StringVar(&location, "location", "", "exact saloon location")
	cmd.MarkFlagsMutuallyExclusive("name", "location")
	cmd.MarkFlagsOneRequired("name", "location")

	return cmd
}

func saloonPayloadFlags(cmd *cobra.Command, payload *saloon.SaloonPayload) {
	cmd.Flags().StringVar(&payload.Name, "name", "", "saloon name")
	cmd.Flags().StringVar(&payload.Location, "location", "", "saloon location")
	cmd.Flags().StringVar(&payload.SaloonURL, "url", "", "saloon url")
}

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)

	if err != nil {
		return 0, WrapExitError(ExitCallerError, fmt.Sprintf("invalid id %q", arg), err)
	}

	return id, nil
}
