// internal/domain/importer/template.go
package importer

// TemplateFilename is the suggested filename for the downloadable template
const TemplateFilename = "plantilla_productos.csv"

// Template returns the downloadable CSV template with sample rows
// covering both main categories.
func Template() string {
	return "nombre,marca,precio,categoria,subcategoria,descripcion,notas,imagen_url,ml,stock,estado,descuento,luxury,activo\n" +
		"Sauvage,Dior,180000,para-ellos,disenador,Eau de parfum intensa,\"Bergamota, pimienta, ambroxan\",https://example.com/sauvage.jpg,100,12,disponible,,false,true\n" +
		"Good Girl,Carolina Herrera,165000,para-ellas,disenador,Floral oriental,\"Jazmin, cacao, haba tonka\",https://example.com/goodgirl.jpg,80,8,disponible,10,false,true\n" +
		"Khamrah,Lattafa,95000,unisex,arabes,Dulce especiado,\"Canela, datil, vainilla\",https://example.com/khamrah.jpg,100,20,oferta,15,false,true\n"
}
