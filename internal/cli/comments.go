package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/model"
)

func newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write game comments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list GAME_ID",
		Short: "List comments on a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments := app.GamesService.GetComments(cmd.Context(), model.GameID(args[0]))
			output(cmd).Print(comments)
			return nil
		},
	})

	cmd.AddCommand(newCommentsPostCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "delete COMMENT_ID",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.GamesService.DeleteComment(cmd.Context(), model.CommentID(args[0])); err != nil {
				return err
			}
			output(cmd).PrintMessage("Đã xóa bình luận")
			return nil
		},
	})

	return cmd
}

func newCommentsPostCmd() *cobra.Command {
	var text string
	var rating int

	cmd := &cobra.Command{
		Use:   "post GAME_ID",
		Short: "Comment on a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := app.GamesService.PostComment(cmd.Context(), model.GameID(args[0]), text, rating)
			if err != nil {
				return err
			}
			output(cmd).Print(comment)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Comment text (required)")
	cmd.Flags().IntVar(&rating, "rating", 5, "Rating from 1 to 5")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
