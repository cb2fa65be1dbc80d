package main

import "github.com/DRSN-tech/visual-search/internal/app"

//	@title			Visual Search API
//	@version		1.0
//	@description	Каталог товаров с визуальным поиском по изображению.
//	@BasePath		/api
func main() {
	app.Run()
}
