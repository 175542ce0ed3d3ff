package ledger_test

import (
	"reflect"
	"testing"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/ledger"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate_Treasury(t *testing.T) {
	Convey("Given a priced treasury contribution", t, func() {
		prices := ledger.CopperPrices{19721: 3000}
		entries := []model.LogEntry{
			{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindTreasury, User: "Alice.1001", ItemID: 19721, Count: 2, Coins: 500},
		}

		Convey("When aggregating", func() {
			monetary, activity := ledger.Aggregate(entries, prices)

			Convey("Then the gold value lands on treasury and the net score", func() {
				a, ok := monetary.Get("Alice.1001")
				So(ok, ShouldBeTrue)
				So(a.TreasuryValue, ShouldEqual, 0.65)
				So(a.MonetaryScore, ShouldEqual, 0.65)
				So(a.StashValueDeposited, ShouldEqual, 0)
				So(a.StashValueWithdrawn, ShouldEqual, 0)
				So(a.LastActive, ShouldEqual, "2026-01-05T10:00:00.000Z")
			})

			Convey("And no activity account is created", func() {
				So(activity.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the item has no price entry", func() {
			entries[0].ItemID = 99999
			monetary, _ := ledger.Aggregate(entries, prices)

			Convey("Then only the flat coins are counted", func() {
				a, _ := monetary.Get("Alice.1001")
				So(a.MonetaryScore, ShouldEqual, 0.05)
			})
		})

		Convey("When the entry has no user", func() {
			entries[0].User = ""
			monetary, _ := ledger.Aggregate(entries, prices)

			Convey("Then it is skipped silently", func() {
				So(monetary.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestAggregate_Stash(t *testing.T) {
	Convey("Given stash traffic for one user", t, func() {
		prices := ledger.CopperPrices{}

		Convey("When a withdrawal precedes a deposit", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindStash, User: "Burt.2002", Operation: model.OpWithdraw, Coins: 10000},
				{ID: 2, Time: "2026-01-06T10:00:00.000Z", Type: model.KindStash, User: "Burt.2002", Operation: model.OpDeposit, Coins: 4000},
			}
			monetary, _ := ledger.Aggregate(entries, prices)

			Convey("Then the net score is negative and both sums are tracked", func() {
				a, _ := monetary.Get("Burt.2002")
				So(a.MonetaryScore, ShouldEqual, -0.60)
				So(a.StashValueWithdrawn, ShouldEqual, 1.00)
				So(a.StashValueDeposited, ShouldEqual, 0.40)
				So(a.LastActive, ShouldEqual, "2026-01-06T10:00:00.000Z")
			})
		})

		Convey("When the operation field is absent", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindStash, User: "Burt.2002", Coins: 5000},
			}
			monetary, _ := ledger.Aggregate(entries, prices)

			Convey("Then it counts as a deposit", func() {
				a, _ := monetary.Get("Burt.2002")
				So(a.StashValueDeposited, ShouldEqual, 0.50)
				So(a.MonetaryScore, ShouldEqual, 0.50)
			})
		})

		Convey("When the operation is a move", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindStash, User: "Burt.2002", Operation: "move", Coins: 5000},
			}
			monetary, _ := ledger.Aggregate(entries, prices)

			Convey("Then no value moves but the user still counts as active", func() {
				a, ok := monetary.Get("Burt.2002")
				So(ok, ShouldBeTrue)
				So(a.MonetaryScore, ShouldEqual, 0)
				So(a.LastActive, ShouldEqual, "2026-01-05T10:00:00.000Z")
			})
		})
	})
}

func TestAggregate_PerUpdateRounding(t *testing.T) {
	Convey("Given three contributions worth 0.0333 gold each", t, func() {
		entries := []model.LogEntry{
			{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindTreasury, User: "Carl.3003", Coins: 333},
			{ID: 2, Time: "2026-01-05T11:00:00.000Z", Type: model.KindTreasury, User: "Carl.3003", Coins: 333},
			{ID: 3, Time: "2026-01-05T12:00:00.000Z", Type: model.KindTreasury, User: "Carl.3003", Coins: 333},
		}

		Convey("When aggregating", func() {
			monetary, _ := ledger.Aggregate(entries, ledger.CopperPrices{})

			Convey("Then each update rounds before accumulating", func() {
				// A single final rounding would give 0.10; the fixed-point
				// discipline gives 0.03 per event.
				a, _ := monetary.Get("Carl.3003")
				So(a.TreasuryValue, ShouldEqual, 0.09)
				So(a.MonetaryScore, ShouldEqual, 0.09)
			})
		})
	})
}

func TestAggregate_MidpointRounding(t *testing.T) {
	Convey("Given contributions landing on exact binary midpoints", t, func() {
		entries := []model.LogEntry{
			{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindTreasury, User: "Mid.1001", Coins: 1250},
			{ID: 2, Time: "2026-01-05T11:00:00.000Z", Type: model.KindTreasury, User: "Even.2002", Coins: 6250},
			{ID: 3, Time: "2026-01-05T12:00:00.000Z", Type: model.KindTreasury, User: "Odd.3003", Coins: 3750},
		}

		Convey("When aggregating", func() {
			monetary, _ := ledger.Aggregate(entries, ledger.CopperPrices{})

			Convey("Then half-values round to the even cent", func() {
				// 0.125 and 0.625 are exactly representable, so they are
				// true ties: 12.5 -> 12 and 62.5 -> 62, never up.
				mid, _ := monetary.Get("Mid.1001")
				So(mid.MonetaryScore, ShouldEqual, 0.12)
				even, _ := monetary.Get("Even.2002")
				So(even.MonetaryScore, ShouldEqual, 0.62)
				odd, _ := monetary.Get("Odd.3003")
				So(odd.MonetaryScore, ShouldEqual, 0.38)
			})
		})
	})
}

func TestAggregate_Activity(t *testing.T) {
	Convey("Given activity entries", t, func() {
		prices := ledger.CopperPrices{}

		Convey("When an upgrade is queued", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindUpgrade, User: "Dana.4004", Action: model.ActionQueued},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then it earns 15 points", func() {
				a, _ := activity.Get("Dana.4004")
				So(a.UpgradesQueued, ShouldEqual, 1)
				So(a.ActivityScore, ShouldEqual, 15)
			})
		})

		Convey("When an upgrade merely completes", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindUpgrade, User: "Dana.4004", Action: "completed"},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then no account is created", func() {
				So(activity.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a mission starts", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindMission, User: "Dana.4004", State: model.StateStart},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then it earns 5 points", func() {
				a, _ := activity.Get("Dana.4004")
				So(a.MissionsStarted, ShouldEqual, 1)
				So(a.ActivityScore, ShouldEqual, 5)
			})
		})

		Convey("When a daily login credits its participants", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindInfluence, Activity: model.ActivityDailyLogin,
					Participants: []string{"Eve.5005", "", "Finn.6006"}},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then every non-empty participant earns one point", func() {
				So(activity.Len(), ShouldEqual, 2)
				eve, _ := activity.Get("Eve.5005")
				So(eve.DailyLoginParticipations, ShouldEqual, 1)
				So(eve.ActivityScore, ShouldEqual, 1)
			})
		})

		Convey("When an influence entry is not a daily login", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindInfluence, Activity: "gifted",
					Participants: []string{"Eve.5005"}},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then nobody is credited", func() {
				So(activity.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestAggregate_Invites(t *testing.T) {
	Convey("Given invite and join entries", t, func() {
		prices := ledger.CopperPrices{}

		Convey("When an invite is followed by the recruit joining", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindInvited, User: "Bob.7007", InvitedBy: "Carol.8008"},
				{ID: 2, Time: "2026-01-06T10:00:00.000Z", Type: model.KindJoined, User: "Bob.7007"},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then the inviter gets both credits and the recruit none", func() {
				carol, ok := activity.Get("Carol.8008")
				So(ok, ShouldBeTrue)
				So(carol.InvitesSent, ShouldEqual, 1)
				So(carol.InvitesAccepted, ShouldEqual, 1)
				So(carol.ActivityScore, ShouldEqual, 10)

				_, ok = activity.Get("Bob.7007")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the join precedes the invite in the batch", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindJoined, User: "Bob.7007"},
				{ID: 2, Time: "2026-01-06T10:00:00.000Z", Type: model.KindInvited, User: "Bob.7007", InvitedBy: "Carol.8008"},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then the pre-pass invite map still awards the credit", func() {
				carol, _ := activity.Get("Carol.8008")
				So(carol.InvitesAccepted, ShouldEqual, 1)
			})
		})

		Convey("When a member joins without a tracked invite", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindJoined, User: "Walkin.9009"},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then nobody is credited", func() {
				So(activity.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the same invitee was invited twice", func() {
			entries := []model.LogEntry{
				{ID: 1, Time: "2026-01-05T10:00:00.000Z", Type: model.KindInvited, User: "Bob.7007", InvitedBy: "Carol.8008"},
				{ID: 2, Time: "2026-01-06T10:00:00.000Z", Type: model.KindInvited, User: "Bob.7007", InvitedBy: "Dave.1010"},
				{ID: 3, Time: "2026-01-07T10:00:00.000Z", Type: model.KindJoined, User: "Bob.7007"},
			}
			_, activity := ledger.Aggregate(entries, prices)

			Convey("Then the later invite wins the acceptance credit", func() {
				dave, _ := activity.Get("Dave.1010")
				So(dave.InvitesAccepted, ShouldEqual, 1)
				carol, _ := activity.Get("Carol.8008")
				So(carol.InvitesAccepted, ShouldEqual, 0)
			})
		})
	})
}

func TestAggregate_Properties(t *testing.T) {
	Convey("Given a mixed entry sequence", t, func() {
		prices := ledger.CopperPrices{19721: 3000, 24295: 125}
		entries := []model.LogEntry{
			{ID: 1, Time: "2026-01-01T00:00:00.000Z", Type: model.KindTreasury, User: "Gia.1111", ItemID: 19721, Count: 7, Coins: 123},
			{ID: 2, Time: "2026-01-02T00:00:00.000Z", Type: model.KindStash, User: "Gia.1111", Operation: model.OpDeposit, ItemID: 24295, Count: 33},
			{ID: 3, Time: "2026-01-03T00:00:00.000Z", Type: model.KindStash, User: "Gia.1111", Operation: model.OpWithdraw, Coins: 7777},
			{ID: 4, Time: "2026-01-04T00:00:00.000Z", Type: model.KindStash, User: "Hal.2222", Operation: model.OpWithdraw, ItemID: 19721, Count: 4},
			{ID: 5, Time: "2026-01-05T00:00:00.000Z", Type: model.KindUpgrade, User: "Hal.2222", Action: model.ActionQueued},
			{ID: 6, Time: "2026-01-06T00:00:00.000Z", Type: model.KindInfluence, Activity: model.ActivityDailyLogin, Participants: []string{"Gia.1111", "Hal.2222"}},
		}

		Convey("When aggregating", func() {
			monetary, activity := ledger.Aggregate(entries, prices)

			Convey("Then the monetary identity holds for every account", func() {
				for _, a := range monetary.Accounts() {
					net := a.TreasuryValue + a.StashValueDeposited - a.StashValueWithdrawn
					So(a.MonetaryScore, ShouldAlmostEqual, net, 0.01*float64(len(entries)))
				}
			})

			Convey("And monetary updates never touch activity timestamps", func() {
				gia, _ := activity.Get("Gia.1111")
				So(gia.LastActive, ShouldEqual, "2026-01-06T00:00:00.000Z")
				giaMon, _ := monetary.Get("Gia.1111")
				So(giaMon.LastActive, ShouldEqual, "2026-01-03T00:00:00.000Z")
			})

			Convey("And accounts come back in first-touch order", func() {
				accounts := monetary.Accounts()
				So(accounts[0].User, ShouldEqual, "Gia.1111")
				So(accounts[1].User, ShouldEqual, "Hal.2222")
			})
		})

		Convey("When aggregating the same input twice", func() {
			m1, a1 := ledger.Aggregate(entries, prices)
			m2, a2 := ledger.Aggregate(entries, prices)

			Convey("Then the results are identical", func() {
				So(reflect.DeepEqual(m1.Accounts(), m2.Accounts()), ShouldBeTrue)
				So(reflect.DeepEqual(a1.Accounts(), a2.Accounts()), ShouldBeTrue)
			})
		})

		Convey("When no entries are supplied", func() {
			monetary, activity := ledger.Aggregate(nil, prices)

			Convey("Then both books are empty without error", func() {
				So(monetary.Len(), ShouldEqual, 0)
				So(activity.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestPoints(t *testing.T) {
	Convey("Given the published activity weight table", t, func() {
		points := ledger.Points()

		Convey("Then it matches the scoring contract exactly", func() {
			So(points, ShouldResemble, map[string]int{
				"upgrade_queued":  15,
				"mission_started": 5,
				"invited":         5,
				"invite_accepted": 5,
				"daily_login":     1,
			})
		})
	})
}
