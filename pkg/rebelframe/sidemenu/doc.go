// Package sidemenu groups the interchangeable side drawer strategies. Each
// subpackage implements windowmanager.Drawer and differs only in how it
// drives the drawer surface:
//
//   - slide: a panel that slides in over a parallax-shifted menu
//   - parallax: the content scales down to reveal the menu behind it
//   - native: the platform drawer layout, with the content's views
//     re-parented into the drawer's center view
//
// Strategies are selected by name through the side_menu.type setting.
package sidemenu
