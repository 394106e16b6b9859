package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pkgadmin/internal/admin"
	"pkgadmin/internal/models"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

func (c *cli) run(ctx context.Context, name string, args []string) error {
	switch name {
	case "list":
		return c.list(ctx, args)
	case "export":
		return c.export(ctx, args)
	case "add":
		return c.save(ctx, name, args)
	case "edit":
		return c.save(ctx, name, args)
	case "delete":
		return c.delete(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	}
	return errors.Errorf("unknown command %q", name)
}

// load fetches the list; a failure is reported the way the screen shows it.
func (c *cli) load(ctx context.Context) (*admin.Controller, error) {
	ctrl := c.controller()
	if err := ctrl.Load(ctx); err != nil {
		return nil, errors.Errorf("خطأ: %s", ctrl.Status().Message)
	}
	return ctrl, nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "search title, description or category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctrl, err := c.load(ctx)
	if err != nil {
		return err
	}
	return printTable(c.out, ctrl.Visible(*query))
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	query := fs.String("q", "", "search title, description or category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctrl, err := c.load(ctx)
	if err != nil {
		return err
	}
	return admin.ExportCSV(c.out, ctrl.Visible(*query))
}

type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

// save handles add and edit. Only flags given on the command line change the
// draft; for edit the rest of the record is kept as loaded.
func (c *cli) save(ctx context.Context, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.Int64("id", 0, "package id (edit only)")
	title := fs.String("title", "", "title")
	description := fs.String("description", "", "description")
	price := fs.String("price", "", "price; empty clears it")
	delivery := fs.String("delivery-time", "", "delivery time label; empty clears it")
	category := fs.String("category", "", "category; empty clears it")
	order := fs.String("display-order", "", "display order; empty clears it")
	active := fs.Bool("active", true, "whether the package is active")
	clearFeatures := fs.Bool("clear-features", false, "drop existing features before adding -feature values")
	var features multiFlag
	fs.Var(&features, "feature", "feature line, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ctrl, err := c.load(ctx)
	if err != nil {
		return err
	}

	if name == "edit" {
		if *id <= 0 {
			return errors.New("edit needs -id")
		}
		rec, ok := ctrl.Find(*id)
		if !ok {
			return errors.Errorf("package %d not found", *id)
		}
		ctrl.OpenEdit(rec)
	} else {
		ctrl.OpenAdd()
	}

	err = ctrl.Edit(func(d *admin.Draft) error {
		if set["title"] {
			d.SetTitle(*title)
		}
		if set["description"] {
			d.SetDescription(*description)
		}
		if set["category"] {
			d.SetCategory(*category)
		}
		if set["delivery-time"] {
			d.SetDeliveryTime(*delivery)
		}
		if set["active"] {
			d.SetActive(*active)
		}
		if set["price"] {
			if err := d.SetPrice(*price); err != nil {
				return err
			}
		}
		if set["display-order"] {
			if err := d.SetDisplayOrder(*order); err != nil {
				return err
			}
		}
		if *clearFeatures {
			for len(d.Features()) > 0 {
				if err := d.RemoveFeature(0); err != nil {
					return err
				}
			}
		}
		for _, f := range features {
			if err := d.SetFeatureByKey(d.AddFeature(), f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := ctrl.Submit(ctx); err != nil {
		return err
	}
	if st := ctrl.Status(); st.Phase == admin.PhaseError {
		fmt.Fprintf(c.errOut, "saved, but reloading failed: %s\n", st.Message)
		return nil
	}
	fmt.Fprintln(c.out, "saved")
	return printTable(c.out, ctrl.Visible(""))
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int64("id", 0, "package id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("delete needs -id")
	}
	c.autoYes = *yes

	ctrl, err := c.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := ctrl.Find(*id); !ok {
		return errors.Errorf("package %d not found", *id)
	}
	if err := ctrl.Delete(ctx, id); err != nil {
		return err
	}
	if st := ctrl.Status(); st.Phase == admin.PhaseError {
		fmt.Fprintf(c.errOut, "deleted, but reloading failed: %s\n", st.Message)
		return nil
	}
	if _, stillThere := ctrl.Find(*id); stillThere {
		fmt.Fprintln(c.out, "not deleted")
		return nil
	}
	return printTable(c.out, ctrl.Visible(""))
}

func printTable(w io.Writer, pkgs []models.Package) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tالعنوان\tالوصف\tالسعر\tمدة التسليم\tالفئة\tمفعل\tالترتيب")
	for _, p := range pkgs {
		active := "لا"
		if p.IsActive {
			active = "نعم"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			orDash(p.ID), p.Title, truncate(p.Description, 40),
			orDash(p.Price), orDash(p.DeliveryTime), orDash(p.Category),
			active, orDash(p.DisplayOrder))
	}
	return tw.Flush()
}

func orDash[T any](v *T) string {
	if v == nil {
		return "—"
	}
	return cast.ToString(*v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
