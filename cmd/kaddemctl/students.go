package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/kaddem/internal/app/aggregator"
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/app/mutations"
)

func (c *cli) studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student", "etudiants"},
		Short:   "List and change students",
	}
	cmd.AddCommand(
		c.studentsListCmd(),
		c.studentsByDepartmentCmd(),
		c.studentsCreateCmd(),
		c.studentsUpdateCmd(),
		c.studentsDeleteCmd(),
		c.studentsAssignCmd(),
	)
	return cmd
}

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func (c *cli) studentsListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := c.svc.StudentRows(cmd.Context(), search)
			warnStatus(cmd.ErrOrStderr(), resp.Status)
			renderRows(cmd.OutOrStdout(), resp.Students)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d students\n", resp.Matched, resp.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text matched against first and last names")
	return cmd
}

func (c *cli) studentsByDepartmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-department DEPARTMENT_ID",
		Short: "List the students of a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("department", args[0])
			if err != nil {
				return err
			}
			// The department list gives the roster its name.
			c.svc.EnsureLoaded(cmd.Context())

			resp, err := c.svc.StudentsByDepartment(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", resp.Department, resp.DepartmentID)
			renderRows(cmd.OutOrStdout(), resp.Students)
			return nil
		},
	}
}

// normalizeOption accepts options in any case
func normalizeOption(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// studentFlags binds the fields of a student form
func studentFlags(cmd *cobra.Command, form *mutations.StudentForm) {
	cmd.Flags().StringVar(&form.FirstName, "first", "", "First name")
	cmd.Flags().StringVar(&form.LastName, "last", "", "Last name")
	cmd.Flags().StringVar((*string)(&form.Option), "option", "", "Option: GAMIX, SE, SIM or NIDS")
}

func (c *cli) studentsCreateCmd() *cobra.Command {
	var (
		form           mutations.StudentForm
		contract, team int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student, optionally bound to a contract and a team",
		Example: `  kaddemctl students create --first Ada --last Lovelace --option SE
  kaddemctl students create --first Ada --last Lovelace --contract 3 --team 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Option = models.Option(normalizeOption(string(form.Option)))

			var (
				row aggregator.DisplayRow
				err error
			)
			if cmd.Flags().Changed("contract") || cmd.Flags().Changed("team") {
				row, err = c.svc.CreateStudentWithAssignments(cmd.Context(), form, contract, team)
			} else {
				row, err = c.svc.CreateStudent(cmd.Context(), form)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created student %d: %s\n", row.ID, row.Name)
			return nil
		},
	}
	studentFlags(cmd, &form)
	cmd.Flags().Int64Var(&contract, "contract", 0, "Contract id")
	cmd.Flags().Int64Var(&team, "team", 0, "Team id")
	return cmd
}

func (c *cli) studentsUpdateCmd() *cobra.Command {
	var form mutations.StudentForm
	cmd := &cobra.Command{
		Use:   "update STUDENT_ID",
		Short: "Replace the names and option of a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("student", args[0])
			if err != nil {
				return err
			}
			form.Option = models.Option(normalizeOption(string(form.Option)))

			row, err := c.svc.UpdateStudent(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated student %d: %s\n", row.ID, row.Name)
			return nil
		},
	}
	studentFlags(cmd, &form)
	return cmd
}

func (c *cli) studentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("student", args[0])
			if err != nil {
				return err
			}
			if err := c.svc.DeleteStudent(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted student %d\n", id)
			return nil
		},
	}
}

func (c *cli) studentsAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign STUDENT_ID DEPARTMENT_ID",
		Short: "Assign a student to a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			studentID, err := parseID("student", args[0])
			if err != nil {
				return err
			}
			departmentID, err := parseID("department", args[1])
			if err != nil {
				return err
			}
			if err := c.svc.AssignDepartment(cmd.Context(), studentID, departmentID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assigned student %d to department %d\n", studentID, departmentID)
			return nil
		},
	}
}
