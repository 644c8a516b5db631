package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/profilekeeper/pkg/profiles"
)

func newRegisterCmd(a *app) *cobra.Command {
	var avatar, birthday string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.user == "" {
				return fmt.Errorf("--user is required")
			}
			bday, err := profiles.ParseBirthday(birthday)
			if err != nil {
				return err
			}
			sess, err := profiles.Register(a.store, a.user, a.password, avatar, bday)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", sess.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar image path")
	cmd.Flags().StringVar(&birthday, "birthday", "", "birthday as month/day/year")
	_ = cmd.MarkFlagRequired("birthday")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(sess.Record(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printSession(cmd.OutOrStdout(), sess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record as JSON")
	return cmd
}

func printSession(w io.Writer, sess *profiles.Session) {
	fmt.Fprintf(w, "id:       %s\n", sess.ID())
	fmt.Fprintf(w, "avatar:   %s\n", sess.Avatar())
	fmt.Fprintf(w, "birthday: %d/%d/%d\n", sess.BirthMonth(), sess.BirthDay(), sess.BirthYear())
	fmt.Fprintf(w, "score:    %d\n", sess.Score())
	fmt.Fprintf(w, "type:     %d\n", sess.Type())

	scores := sess.LevelScores()
	paths := sess.LevelPaths()
	levels := make([]int, 0, len(scores))
	for level := range scores {
		levels = append(levels, level)
	}
	for level := range paths {
		if _, ok := scores[level]; !ok {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)
	for _, level := range levels {
		fmt.Fprintf(w, "level %d:  score=%d path_samples=%d\n", level, sess.LevelScore(level), len(sess.LevelPath(level)))
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profile ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range a.store.IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := a.store.Delete(sess.ID()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", sess.ID())
			return nil
		},
	}
}

func newScoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Change the overall score",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add DELTA",
			Short: "Add to the score (may be negative)",
			Args:  cobra.ExactArgs(1),
			RunE: a.withInt(func(sess *profiles.Session, n int) error {
				return sess.UpdateScore(n)
			}),
		},
		&cobra.Command{
			Use:   "set SCORE",
			Short: "Replace the score",
			Args:  cobra.ExactArgs(1),
			RunE: a.withInt(func(sess *profiles.Session, n int) error {
				return sess.ReplaceScore(n)
			}),
		},
	)
	return cmd
}

func newTypeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "type 0|1",
		Short: "Set the player type",
		Args:  cobra.ExactArgs(1),
		RunE: a.withInt(func(sess *profiles.Session, n int) error {
			return sess.SetType(n)
		}),
	}
}

func newAvatarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar PATH",
		Short: "Change the avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := sess.ChangeAvatar(args[0]); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

func newLevelScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "level-score LEVEL SCORE",
		Short: "Record a score for a level, keeping the best",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args)
			if err != nil {
				return err
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := sess.UpdateLevelScore(nums[0], nums[1]); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

func newLevelPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "level-path LEVEL SAMPLES",
		Short: "Record a path for a level (comma-separated samples), keeping the shortest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[0], err)
			}
			path, err := parseSamples(args[1])
			if err != nil {
				return err
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := sess.UpdateLevelPath(level, path); err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

// withInt wraps a single-integer session operation as a RunE
func (a *app) withInt(op func(*profiles.Session, int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args)
		if err != nil {
			return err
		}
		sess, err := a.session()
		if err != nil {
			return err
		}
		if err := op(sess, nums[0]); err != nil {
			return err
		}
		printSession(cmd.OutOrStdout(), sess)
		return nil
	}
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", arg, err)
		}
		out[i] = n
	}
	return out, nil
}

func parseSamples(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid path sample %q: %w", p, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid path sample %q: not a finite number", p)
		}
		out = append(out, f)
	}
	return out, nil
}
