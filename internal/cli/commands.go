package cli

import (
	"fmt"
	"logistics-network-service/internal/api/dto"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/services"
	"strings"

	"github.com/spf13/cobra"
)

func newRouteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Fastest route between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			route, err := network.ShortestRoute(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, opts, routeDTO(args[0], args[1], route),
				fmt.Sprintf("%s (%d min)", joinStops(route.Stops), route.TotalMinutes))
		},
	}
}

func newPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Route with the fewest links between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			route, err := network.Path(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, opts, routeDTO(args[0], args[1], route),
				fmt.Sprintf("%s (%d links, %d min)", joinStops(route.Stops), len(route.Stops)-1, route.TotalMinutes))
		},
	}
}

func newTraverseCmd(opts *options) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "traverse <start>",
		Short: "List locations reachable from start in DFS or BFS order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			o := services.TraversalOrder(strings.ToLower(order))
			visit, err := network.Traverse(args[0], o)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, dto.TraversalResponse{Start: args[0], Order: string(o), Visit: visit},
				strings.Join(visit, "\n"))
		},
	}
	cmd.Flags().StringVarP(&order, "order", "o", string(services.OrderBFS), "traversal order: dfs or bfs")
	return cmd
}

func newNeighborsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors <location>",
		Short: "Locations one link away",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			locs, err := network.Neighbors(args[0])
			if err != nil {
				return err
			}

			lines := make([]string, 0, len(locs))
			res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
			for _, l := range locs {
				minutes, _, err := network.Link(args[0], l.Name)
				if err != nil {
					return err
				}
				lines = append(lines, fmt.Sprintf("%s\t%d min", l.Name, minutes))
				res.Locations = append(res.Locations, locationDTO(l))
			}
			return printResult(cmd, opts, res, strings.Join(lines, "\n"))
		},
	}
}

func newReachableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reachable <from> <to>",
		Short: "Report whether to can be reached from from",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ok, err := network.Reachable(args[0], args[1])
			if err != nil {
				return err
			}
			text := "unreachable"
			if ok {
				text = "reachable"
			}
			return printResult(cmd, opts, dto.ReachableResponse{From: args[0], To: args[1], Reachable: ok}, text)
		},
	}
}

func newLocationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List every location in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := loadNetwork(cmd.Context(), opts)
			if err != nil {
				return err
			}
			locs := network.Locations()

			lines := make([]string, 0, len(locs))
			res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
			for _, l := range locs {
				lines = append(lines, fmt.Sprintf("%d\t%s\t%s", l.NodeID, l.Name, l.Kind))
				res.Locations = append(res.Locations, locationDTO(l))
			}
			return printResult(cmd, opts, res, strings.Join(lines, "\n"))
		},
	}
}

func newPlanCmd(opts *options) *cobra.Command {
	var (
		plate         string
		capacityKg    int
		returnToStart bool
	)

	cmd := &cobra.Command{
		Use:   "plan <sorting_center>",
		Short: "Dispatch one vehicle with the center's pending cargo and print its route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, repo, err := loadSeed(cmd.Context(), opts)
			if err != nil {
				return err
			}

			dispatcher := services.NewDispatcher(network)
			dispatcher.ReturnToStart = returnToStart
			if err := dispatcher.LoadCargo(cmd.Context(), repo); err != nil {
				return err
			}
			if _, err := dispatcher.AddVehicle(plate, capacityKg, args[0]); err != nil {
				return err
			}
			if err := dispatcher.AddVehicleToQueue(plate, args[0]); err != nil {
				return err
			}
			m, err := dispatcher.AddAutoTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			stops := make([]string, 0, len(m.Plan.Stops))
			for _, s := range m.Plan.Stops {
				stops = append(stops, s.Destination)
			}
			return printResult(cmd, opts, planDTO(m.Plan),
				fmt.Sprintf("%s from %s: %s (%d min, %d kg)", m.Plate, m.SortingCenter, joinStops(stops), m.Plan.TotalMinutes, m.Plan.LoadKg))
		},
	}
	cmd.Flags().StringVarP(&plate, "plate", "p", "VCL-001", "vehicle plate")
	cmd.Flags().IntVarP(&capacityKg, "capacity", "c", 500, "vehicle capacity in kg")
	cmd.Flags().BoolVarP(&returnToStart, "return", "r", false, "plan the leg back to the sorting center")
	return cmd
}

func planDTO(p *domain.RoutePlan) dto.PlanResponse {
	stops := make([]dto.PlanStopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, dto.PlanStopResponse{Destination: s.Destination, ArriveAt: s.ArriveAt, CargoIDs: s.CargoIDs})
	}
	return dto.PlanResponse{
		Plate:        p.Plate,
		DepartAt:     p.DepartAt,
		TotalMinutes: p.TotalMinutes,
		LoadKg:       p.LoadKg,
		Stops:        stops,
	}
}

func routeDTO(from, to string, r domain.Route) dto.RouteResponse {
	return dto.RouteResponse{From: from, To: to, Stops: r.Stops, NodeIDs: r.NodeIDs, TotalMinutes: r.TotalMinutes}
}

func locationDTO(l *domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		NodeID:         l.NodeID,
		Name:           l.Name,
		Kind:           l.Kind.String(),
		Zone:           l.Zone,
		Priority:       l.Priority,
		DeliveryWindow: l.DeliveryWindow,
		Handling:       l.Handling.String(),
	}
}
