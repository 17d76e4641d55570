package windowmanager_test

import (
	"fmt"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/slide"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager/windowmanagertest"
)

// Example demonstrates stacked navigation with a named stack.
func Example() {
	m, _ := windowmanager.New(windowmanager.Options{
		Platform: windowmanagertest.NewPlatform(),
		Logger:   discardLog,
	})
	defer m.Shutdown()

	m.Subscribe("", func(ev windowmanager.Event) {
		fmt.Printf("%s %s\n", ev.Kind, ev.Screen.Title)
	})

	list := windowmanager.NewScreen("List")
	detail := windowmanager.NewScreen("Detail")

	_ = m.Open(list, windowmanager.Intent{NavGroup: true, CreateStack: "browse"})
	_ = m.Open(detail, windowmanager.Intent{NavGroup: true, AddToStack: "browse"})
	fmt.Println("depth:", m.ActiveController().Depth())

	m.KillStack("browse")
	fmt.Println("controllers:", len(m.Controllers()))

	// Output:
	// open List
	// open Detail
	// depth: 2
	// close Detail
	// close List
	// controllers: 0
}

// Example_drawer demonstrates hosting screens in the side drawer.
func Example_drawer() {
	m, _ := windowmanager.New(windowmanager.Options{
		Platform:       windowmanagertest.NewPlatform(),
		Drawers:        map[string]windowmanager.DrawerFactory{constants.SideMenuSlide: slide.Factory},
		DrawerStrategy: constants.SideMenuSlide,
		Logger:         discardLog,
	})
	defer m.Shutdown()

	m.Subscribe(constants.EventDrawerOpen, func(ev windowmanager.Event) {
		fmt.Println("menu opened over", ev.Screen.Title)
	})

	home := windowmanager.NewScreen("Home")
	profile := windowmanager.NewScreen("Profile")

	_ = m.Open(home, windowmanager.Intent{ShowSideMenu: true})
	m.ToggleDrawer()

	_ = m.Open(profile, windowmanager.Intent{ShowSideMenu: true})
	fmt.Println("content:", m.Drawer().Content().Title)
	fmt.Println("home:", home.State().GetName())

	// Output:
	// menu opened over Home
	// content: Profile
	// home: Closed
}
