package views

import (
	"context"
	"strconv"

	"ccdash/internal/report"
)

const msgUsersUnavailable = "No se pudo cargar el listado de usuarios."

// Usuarios lists the dashboard accounts.
func (a *Assembler) Usuarios(ctx context.Context) report.View {
	v := report.View{Name: Usuarios, Title: "Usuarios"}
	if a.users == nil {
		v.Notify("", report.LevelError, msgUsersUnavailable)
		return v
	}
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		v.Notify("", report.LevelError, msgUsersUnavailable)
		return v
	}

	if len(users) == 0 {
		v.Notify("", report.LevelInfo, "No hay usuarios registrados.")
		return v
	}

	t := report.NewTable("usuarios", "Usuarios",
		report.Column{Key: "id", Label: "ID", Kind: report.KindText},
		report.Column{Key: "username", Label: "Username", Kind: report.KindText},
		report.Column{Key: "nombre", Label: "Nombre", Kind: report.KindText},
		report.Column{Key: "apellido", Label: "Apellido", Kind: report.KindText},
		report.Column{Key: "rol", Label: "Rol", Kind: report.KindText},
		report.Column{Key: "estado", Label: "Estado", Kind: report.KindText},
	)
	for _, u := range users {
		t.Add(
			report.Text(strconv.Itoa(u.ID)),
			report.Text(u.Username),
			report.Text(u.Nombre),
			report.Text(u.Apellido),
			report.Text(u.Rol),
			report.Text(u.Estado()),
		)
	}
	v.AddTable(t)
	return v
}
