package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"activity-marketplace/internal/client"
	"activity-marketplace/internal/global/logger"

	"github.com/spf13/cobra"
)

var activitiesOpts struct {
	api      string
	email    string
	password string
	all      bool
}

// activitiesCmd 以主办方身份登录，列出自己创建的活动
var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "列出我创建的活动",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		password := activitiesOpts.password
		if password == "" {
			password = os.Getenv("MARKETPLACE_PASSWORD")
		}

		api := client.NewAPI(activitiesOpts.api, 10*time.Second)
		auth := client.NewAuthClient(api)
		session, err := auth.SignIn(ctx, activitiesOpts.email, password)
		if err != nil {
			return err
		}
		defer func() { _ = auth.SignOut(context.Background()) }()

		notifier := client.LogNotifier{Log: logger.New("Client")}
		feed := client.NewActivityFeed(api, session.User.ID, notifier)
		defer feed.Close()
		if err := feed.Load(ctx, 1); err != nil {
			return err
		}
		for activitiesOpts.all && feed.Snapshot().HasMore {
			if err := feed.LoadMore(ctx); err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\t标题\t分类\t价格\t状态\t创建时间")
		for _, a := range feed.Snapshot().Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.Title, a.Category, a.Price.StringFixed(2), a.Status, a.CreatedAt.Format(time.DateTime))
		}
		return w.Flush()
	},
}

func init() {
	f := activitiesCmd.Flags()
	f.StringVar(&activitiesOpts.api, "api", "http://localhost:8080/api", "服务地址，包含路由前缀")
	f.StringVar(&activitiesOpts.email, "email", "", "登录邮箱")
	f.StringVar(&activitiesOpts.password, "password", "", "登录密码，也可用环境变量 MARKETPLACE_PASSWORD")
	f.BoolVar(&activitiesOpts.all, "all", false, "加载全部分页")
	_ = activitiesCmd.MarkFlagRequired("email")
}
