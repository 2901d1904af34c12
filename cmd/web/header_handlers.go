package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anhdu.dev/wyd-web/internal/header"
	mw "anhdu.dev/wyd-web/internal/middleware"
)

// navigateEvent is the client event carrying a deferred navigation.
const navigateEvent = "wyd:navigate"

// heldScheduler never fires. The browser owns the deferred navigation timer;
// the server only reports how long to wait.
type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) header.Timer { return heldTimer{} }

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

// menuFragment applies one panel event and renders the panel in its new state.
//
//	GET /menu?state=open&event=toggle|escape|overlay|link&path=/current&to=/target
//
// A link click on an open panel closes it and asks the browser to navigate once
// the close animation is over; on a closed panel it navigates right away.
func (a *app) menuFragment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ev, ok := header.ParseEvent(q.Get("event"))
	if !ok {
		http.Error(w, "unknown menu event", http.StatusBadRequest)
		return
	}
	current := sanitizePath(q.Get("path"))

	var target string
	ctrl := header.NewController(
		header.NavigatorFunc(func(p string) { target = p }),
		header.WithState(header.ParseState(q.Get("state"))),
		header.WithScheduler(heldScheduler{}),
	)
	defer ctrl.Close()

	var delay time.Duration
	if ev == header.LinkClick {
		target = sanitizePath(q.Get("to"))
		delay = ctrl.ClickLink(target)
	} else {
		ctrl.Handle(ev)
	}
	open := ctrl.State() == header.Open

	if !mw.IsHTMX(r.Context()) {
		if ev == header.LinkClick {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		dest := current
		if open {
			dest += "?menu=open"
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	if ev == header.LinkClick {
		if delay == 0 {
			w.Header().Set("HX-Location", target)
			w.WriteHeader(http.StatusOK)
			return
		}
		payload, err := json.Marshal(map[string]any{
			navigateEvent: map[string]any{"path": target, "delay": delay.Milliseconds()},
		})
		if err == nil {
			w.Header().Set("HX-Trigger-After-Settle", string(payload))
		}
	}
	a.views.fragment(w, r, http.StatusOK, "menu", a.menuData(mw.Lang(r), current, open))
}

// sanitizePath accepts only site-local absolute paths, falling back to "/".
func sanitizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsRune(p, '\\') {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "/"
	}
	return u.Path
}
