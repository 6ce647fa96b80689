// Package rolesadapter provides the static capability checker used until
// the role service integration lands: admin unlockers come from process
// configuration.
package rolesadapter

import "context"

type StaticChecker struct {
	admins map[string]struct{}
}

func NewStaticChecker(adminAgentIDs []string) StaticChecker {
	admins := make(map[string]struct{}, len(adminAgentIDs))
	for _, id := range adminAgentIDs {
		admins[id] = struct{}{}
	}
	return StaticChecker{admins: admins}
}

func (c StaticChecker) IsAdminUnlocker(_ context.Context, agentID string) (bool, error) {
	_, ok := c.admins[agentID]
	return ok, nil
}
