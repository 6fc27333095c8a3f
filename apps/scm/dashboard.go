package main

import (
	"context"
	"fmt"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

func (cli *commandLine) dashboard(ctx context.Context) error {
	sess, err := cli.current()
	if err != nil {
		return err
	}
	st, err := cli.client.Dashboard(ctx, sess)
	if err != nil {
		return err
	}
	tw := cli.table()
	fmt.Fprintf(tw, "Welcome, %s\n", sess.DisplayName())
	for _, c := range []struct {
		kind  entity.Kind
		label string
		n     int
	}{
		{entity.KindStudent, "Students", st.Students},
		{entity.KindTeacher, "Teachers", st.Teachers},
		{entity.KindClass, "Classes", st.Classes},
		{entity.KindFee, "Fees", st.Fees},
		{entity.KindFee, "Pending fees", st.PendingFees},
	} {
		if sess.HasPermission(string(c.kind), session.ActionView) {
			fmt.Fprintf(tw, "%s\t%d\n", c.label, c.n)
		}
	}
	return tw.Flush()
}
