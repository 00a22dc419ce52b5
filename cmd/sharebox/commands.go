package main

import (
	"github.com/dmitrijs2005/sharebox/internal/models"
	"github.com/spf13/cobra"
)

func newListCmd(r *runner) *cobra.Command {
	var (
		category, search, sortBy string
		mine                     bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			steps := [][]string{{"category", category}}
			if search != "" {
				steps = append(steps, []string{"search", search})
			}
			steps = append(steps, []string{"sort", sortBy})
			if mine {
				steps = append(steps, []string{"mine", "on"})
			}
			for _, step := range steps {
				if err := r.app.ExecArgs(ctx, "filter", step...); err != nil {
					return err
				}
			}
			return r.app.ExecArgs(ctx, "list")
		},
	}
	cmd.Flags().StringVar(&category, "category", models.CategoryAll, "only show this category")
	cmd.Flags().StringVar(&search, "search", "", "only show products whose title or description contains this text")
	cmd.Flags().StringVar(&sortBy, "sort", string(models.SortNewest), "newest, price-asc, price-desc or likes-desc")
	cmd.Flags().BoolVar(&mine, "mine", false, "only show products of the active profile")
	return cmd
}

func newAutofillCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "autofill <url>",
		Short: "Guess product details from a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.ExecArgs(cmd.Context(), "url", args[0])
		},
	}
}

func newAddCmd(r *runner) *cobra.Command {
	var (
		draft     models.ProductDraft
		imagePath string
		autofill  bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the active profile",
		Long:  "Add a product. With --autofill the details are first guessed from --url; explicit flags win over guessed values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if autofill && draft.SourceURL != "" {
				r.app.SetDraft(models.ProductDraft{SourceURL: draft.SourceURL, Price: draft.Price})
				if err := r.app.Exec(ctx, "url"); err != nil {
					return err
				}
				draft = overlay(r.app.CurrentDraft(), draft)
			}
			r.app.SetDraft(draft)
			if err := r.app.AddDraft(ctx, imagePath); err != nil {
				return err
			}
			r.app.Flush()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&draft.Title, "title", "", "product title")
	f.StringVar(&draft.Description, "description", "", "product description")
	f.StringVar(&draft.Price, "price", "", "price, a positive number")
	f.StringVar(&draft.Category, "category", "", "category, e.g. electronics, fashion, home")
	f.StringVar(&draft.SourceURL, "url", "", "link to the product page")
	f.StringVar(&imagePath, "image", "", "image file to embed")
	f.BoolVar(&autofill, "autofill", false, "guess missing details from --url")
	return cmd
}

// overlay returns guessed with every non-empty field of explicit applied.
func overlay(guessed, explicit models.ProductDraft) models.ProductDraft {
	for _, f := range []struct{ dst, src *string }{
		{&guessed.Title, &explicit.Title},
		{&guessed.Description, &explicit.Description},
		{&guessed.Price, &explicit.Price},
		{&guessed.Category, &explicit.Category},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
	return guessed
}
